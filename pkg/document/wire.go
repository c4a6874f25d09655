package document

import "encoding/json"

// Wire types mirror the JSON layout. Identities and coordinates stay loosely
// typed on the way in so decode errors can name the offending path.

type documentJSON struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	metaJSON
	Meshes    []meshJSON     `json:"meshes"`
	Structure *structureJSON `json:"structure,omitempty"`
}

type attributesJSON map[string]json.RawMessage

// metaJSON is the identity header of the document, each mesh and the
// structure. The transformation is 16 column-major values and is omitted
// when it is the identity.
type metaJSON struct {
	GUID           string          `json:"guid"`
	Name           string          `json:"name,omitempty"`
	Attributes     attributesJSON  `json:"attributes,omitempty"`
	Parent         string          `json:"parent,omitempty"`
	Adjacency      []adjacencyJSON `json:"adjacency,omitempty"`
	Transformation []float64       `json:"transformation,omitempty"`
}

type adjacencyJSON struct {
	GUID string `json:"guid"`
	Type string `json:"type"`
}

type meshJSON struct {
	metaJSON
	Vertices []vertexJSON `json:"vertices"`
	Faces    []faceJSON   `json:"faces"`
}

type vertexJSON struct {
	GUID       string         `json:"guid"`
	Point      []float64      `json:"point"`
	Attributes attributesJSON `json:"attributes,omitempty"`
}

type faceJSON struct {
	GUID       string         `json:"guid"`
	Vertices   []string       `json:"vertices"`
	Attributes attributesJSON `json:"attributes,omitempty"`
}

type structureJSON struct {
	metaJSON
	Nodes    []nodeJSON    `json:"nodes"`
	Members  []memberJSON  `json:"members"`
	Supports []supportJSON `json:"supports"`
	Loads    []loadJSON    `json:"loads"`
}

type nodeJSON struct {
	GUID       string         `json:"guid"`
	Point      []float64      `json:"point"`
	Attributes attributesJSON `json:"attributes,omitempty"`
}

type memberJSON struct {
	GUID       string         `json:"guid"`
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Attributes attributesJSON `json:"attributes,omitempty"`
}

type supportJSON struct {
	GUID       string         `json:"guid"`
	Node       string         `json:"node"`
	Restraint  string         `json:"restraint"`
	Attributes attributesJSON `json:"attributes,omitempty"`
}

type loadJSON struct {
	GUID       string         `json:"guid"`
	Node       string         `json:"node"`
	Force      []float64      `json:"force"`
	Moment     []float64      `json:"moment"`
	Attributes attributesJSON `json:"attributes,omitempty"`
}
