package render

import (
	"math"

	"cogentcore.org/core/math32"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
)

// Camera describes a perspective camera in world coordinates.
type Camera struct {
	Position math32.Vector3
	Target   math32.Vector3
	Up       math32.Vector3
	FOV      float32 // vertical field of view in degrees
	Aspect   float32 // width / height
	Near     float32
	Far      float32
}

// DefaultCamera looks at the origin from +Z with a 45 degree field of view.
func DefaultCamera() Camera {
	return Camera{
		Position: math32.Vec3(0, 0, 10),
		Target:   math32.Vec3(0, 0, 0),
		Up:       math32.Vec3(0, 1, 0),
		FOV:      45,
		Aspect:   1,
		Near:     0.01,
		Far:      100,
	}
}

// FrameBounds returns a camera that fits the box lo..hi into view, looking
// down the box diagonal from the +X+Y+Z side with Z up.
func FrameBounds(lo, hi geometry.Point, aspect float32) Camera {
	cam := DefaultCamera()
	cam.Aspect = aspect
	cam.Up = math32.Vec3(0, 0, 1)

	center := geometry.Midpoint(lo, hi)
	radius := geometry.Distance(lo, hi) / 2
	if radius < geometry.Epsilon {
		radius = 1
	}
	dist := radius / math.Sin(float64(cam.FOV)*math.Pi/360)
	eye := center.Add(geometry.NewVector(1, 1, 1).Scale(dist / math.Sqrt(3)))

	cam.Target = vec3(center.X, center.Y, center.Z)
	cam.Position = vec3(eye.X, eye.Y, eye.Z)
	cam.Near = float32(max(dist-radius, dist*0.001))
	cam.Far = float32(dist + radius*2)
	return cam
}

func (c Camera) validate() error {
	switch {
	case !(c.FOV > 0 && c.FOV < 180):
		return errors.New(errors.CodeInvalidInput, "field of view %g outside (0, 180)", c.FOV)
	case !(c.Aspect > 0):
		return errors.New(errors.CodeInvalidInput, "aspect ratio %g must be positive", c.Aspect)
	case !(c.Near > 0 && c.Far > c.Near):
		return errors.New(errors.CodeInvalidInput, "clip planes need 0 < near < far, got %g, %g", c.Near, c.Far)
	case c.Position == c.Target:
		return errors.New(errors.CodeDegenerateVector, "camera position equals target")
	}
	dir := c.Target.Sub(c.Position)
	if dir.Cross(c.Up).Length() < float32(geometry.Epsilon) {
		return errors.New(errors.CodeDegenerateVector, "camera up vector is parallel to view direction")
	}
	return nil
}

// Lighting holds Blinn-Phong shading parameters for a single point light.
type Lighting struct {
	LightPosition math32.Vector3
	LightColor    math32.Vector3
	ViewPosition  math32.Vector3
	Ambient       float32
	Specular      float32
	Shininess     float32
}

// DefaultLighting returns a white light above and in front of the scene.
func DefaultLighting() Lighting {
	return Lighting{
		LightPosition: math32.Vec3(10, 10, 10),
		LightColor:    math32.Vec3(1, 1, 1),
		ViewPosition:  math32.Vec3(0, 0, 10),
		Ambient:       0.1,
		Specular:      0.5,
		Shininess:     32,
	}
}

// Uniforms is the full shader uniform set.
type Uniforms struct {
	Model      math32.Matrix4
	View       math32.Matrix4
	Projection math32.Matrix4
	Normal     math32.Matrix3 // inverse transpose of the model's linear part
	Lighting   Lighting
}

// NewUniforms computes the uniforms for drawing a mesh placed by model and
// seen through cam. The lighting's view position is replaced by the camera
// position.
//
// Returns SINGULAR_TRANSFORM when model cannot produce a normal matrix,
// and INVALID_INPUT or DEGENERATE_VECTOR for an unusable camera.
func NewUniforms(model geometry.Xform, cam Camera, light Lighting) (*Uniforms, error) {
	if err := cam.validate(); err != nil {
		return nil, err
	}
	normal, err := normalMatrix(model)
	if err != nil {
		return nil, err
	}

	u := &Uniforms{Normal: normal, Lighting: light}
	u.Lighting.ViewPosition = cam.Position
	for i, v := range model {
		u.Model[i] = float32(v)
	}
	u.View = *viewMatrix(cam.Position, cam.Target, cam.Up)
	u.Projection.SetPerspective(cam.FOV, cam.Aspect, cam.Near, cam.Far)
	return u, nil
}

func viewMatrix(pos, target, up math32.Vector3) *math32.Matrix4 {
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(pos, target, up))
	var cview math32.Matrix4
	cview.SetTransform(pos, lookq, math32.Vec3(1, 1, 1))
	view, _ := cview.Inverse()
	return view
}

func normalMatrix(model geometry.Xform) (math32.Matrix3, error) {
	linear := model
	for i := 0; i < 3; i++ {
		linear[12+i] = 0 // translation
		linear[i*4+3] = 0
	}
	linear[15] = 1
	inv, err := linear.Inverse()
	if err != nil {
		return math32.Matrix3{}, errors.Wrap(errors.CodeSingularTransform, err, "model transform has no normal matrix")
	}
	var n math32.Matrix3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			n[c*3+r] = float32(inv.At(c, r)) // transposed
		}
	}
	return n, nil
}

func vec3(x, y, z float64) math32.Vector3 {
	return math32.Vec3(float32(x), float32(y), float32(z))
}
