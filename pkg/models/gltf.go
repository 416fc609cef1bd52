package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/prism/pkg/math3d"
)

// ErrUnsupportedAccessor is returned for accessor layouts the loader does not
// decode.
var ErrUnsupportedAccessor = errors.New("unsupported gltf accessor")

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// FlipWinding reverses every triangle. glTF front faces are
	// counter-clockwise seen from +Z; the camera looks down +Z, so a model
	// authored facing the viewer shows its back unless flipped.
	FlipWinding bool

	// Normalize scales the mesh so its largest dimension equals NormalizeSize
	// and centers it on the origin.
	Normalize     bool
	NormalizeSize float32
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		FlipWinding:   true,
		Normalize:     false,
		NormalizeSize: 2,
	}
}

// LoadGLB loads a binary GLTF (.glb) file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// FromDocument converts every triangle primitive of an already decoded
// document into a single Mesh.
func (l *GLTFLoader) FromDocument(doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh("gltf")

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.CalculateBounds()
	if l.Normalize {
		mesh.Normalize(l.NormalizeSize)
	}
	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, strips)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readPositions(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return fmt.Errorf("index out of range at face %d", i/3)
			}
			tri := Tri(positions[a], positions[b], positions[c])
			if l.FlipWinding {
				tri = tri.Reverse()
			}
			mesh.Triangles = append(mesh.Triangles, tri)
		}
	}

	return nil
}

// readPositions reads a VEC3 accessor as points. Normalized and quantized
// integer positions are converted to float by the modeler.
func readPositions(doc *gltf.Document, accessorIdx int) ([]math3d.Vec4, error) {
	accessor, err := lookupAccessor(doc, accessorIdx, gltf.AccessorVec3)
	if err != nil {
		return nil, err
	}
	raw, err := modeler.ReadPosition(doc, accessor, nil)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec4, len(raw))
	for i, p := range raw {
		result[i] = math3d.Point(p[0], p[1], p[2])
	}
	return result, nil
}

// readIndices reads a SCALAR index accessor of any unsigned component type.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor, err := lookupAccessor(doc, accessorIdx, gltf.AccessorScalar)
	if err != nil {
		return nil, err
	}
	raw, err := modeler.ReadIndices(doc, accessor, nil)
	if err != nil {
		return nil, err
	}
	result := make([]int, len(raw))
	for i, v := range raw {
		result[i] = int(v)
	}
	return result, nil
}

// lookupAccessor returns accessor accessorIdx after checking its type and
// that its buffer view lies inside loaded buffer data.
func lookupAccessor(doc *gltf.Document, accessorIdx int, want gltf.AccessorType) (*gltf.Accessor, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != want {
		return nil, fmt.Errorf("%w: expected %v, got %v", ErrUnsupportedAccessor, want, accessor.Type)
	}
	if accessor.BufferView == nil {
		return accessor, nil
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	// gltf.Open resolves both embedded (GLB) and external buffers into Data.
	if end := view.ByteOffset + view.ByteLength; end > len(doc.Buffers[view.Buffer].Data) {
		return nil, fmt.Errorf("buffer view %d ends at byte %d past loaded data", *accessor.BufferView, end)
	}
	return accessor, nil
}
