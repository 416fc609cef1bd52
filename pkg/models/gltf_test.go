package models

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Error("NewGLTFLoader returned nil")
		return
	}
	if !loader.FlipWinding {
		t.Error("FlipWinding should default to true")
	}
	if loader.Normalize {
		t.Error("Normalize should default to false")
	}
}

func intPtr(i int) *int { return &i }

// quadDocument builds an in-memory document with 4 positions and 6 uint16
// indices forming two triangles.
func quadDocument() *gltf.Document {
	positions := [][3]float32{
		{-1, -1, 0},
		{1, -1, 0},
		{1, 1, 0},
		{-1, 1, 0},
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}

	var data []byte
	for _, p := range positions {
		for _, f := range p {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
		}
	}
	posLen := len(data)
	for _, i := range indices {
		data = binary.LittleEndian.AppendUint16(data, i)
	}

	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posLen},
			{Buffer: 0, ByteOffset: posLen, ByteLength: len(data) - posLen},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: intPtr(0), ComponentType: gltf.ComponentFloat, Count: len(positions), Type: gltf.AccessorVec3},
			{BufferView: intPtr(1), ComponentType: gltf.ComponentUshort, Count: len(indices), Type: gltf.AccessorScalar},
		},
		Meshes: []*gltf.Mesh{{
			Name: "quad",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Indices:    intPtr(1),
				Mode:       gltf.PrimitiveTriangles,
			}},
		}},
	}
}

func TestFromDocumentIndexed(t *testing.T) {
	loader := &GLTFLoader{}
	mesh, err := loader.FromDocument(quadDocument())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Fatalf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}
	first := mesh.Triangles[0]
	if first.A.X != -1 || first.B.X != 1 || first.C.Y != 1 {
		t.Errorf("first triangle = %+v", first)
	}
	if first.SignedArea() <= 0 {
		t.Error("unflipped triangle should keep counter-clockwise winding")
	}
	if mesh.BoundsMin.X != -1 || mesh.BoundsMax.Y != 1 {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestFromDocumentFlipWinding(t *testing.T) {
	loader := NewGLTFLoader()
	mesh, err := loader.FromDocument(quadDocument())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	for i, tri := range mesh.Triangles {
		if tri.SignedArea() >= 0 {
			t.Errorf("triangle %d should be clockwise after flip", i)
		}
	}
}

func TestFromDocumentNormalize(t *testing.T) {
	loader := &GLTFLoader{Normalize: true, NormalizeSize: 1}
	mesh, err := loader.FromDocument(quadDocument())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	size := mesh.Size()
	if math.Abs(float64(size.X)-1) > 1e-6 {
		t.Errorf("normalized width = %v, want 1", size.X)
	}
}

func TestFromDocumentRejectsNonVec3Positions(t *testing.T) {
	doc := quadDocument()
	doc.Accessors[0].Type = gltf.AccessorVec2
	_, err := (&GLTFLoader{}).FromDocument(doc)
	if !errors.Is(err, ErrUnsupportedAccessor) {
		t.Errorf("expected ErrUnsupportedAccessor, got %v", err)
	}
}

// triangleDocument builds one triangle whose positions are normalized
// unsigned bytes padded to a 4-byte stride, indexed by unsigned bytes.
func triangleDocument() *gltf.Document {
	positions := [][3]uint8{{0, 0, 255}, {255, 0, 255}, {0, 255, 255}}
	var data []byte
	for _, p := range positions {
		data = append(data, p[0], p[1], p[2], 0)
	}
	posLen := len(data)
	data = append(data, 0, 1, 2)

	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posLen, ByteStride: 4},
			{Buffer: 0, ByteOffset: posLen, ByteLength: 3},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: intPtr(0), ComponentType: gltf.ComponentUbyte, Normalized: true, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: intPtr(1), ComponentType: gltf.ComponentUbyte, Count: 3, Type: gltf.AccessorScalar},
		},
		Meshes: []*gltf.Mesh{{
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Indices:    intPtr(1),
			}},
		}},
	}
}

func TestFromDocumentQuantizedPositions(t *testing.T) {
	mesh, err := (&GLTFLoader{}).FromDocument(triangleDocument())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
	tri := mesh.Triangles[0]
	want := [3][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}}
	for i, v := range []struct{ X, Y, Z float32 }{
		{tri.A.X, tri.A.Y, tri.A.Z},
		{tri.B.X, tri.B.Y, tri.B.Z},
		{tri.C.X, tri.C.Y, tri.C.Z},
	} {
		got := [3]float32{v.X, v.Y, v.Z}
		for j := range got {
			if math.Abs(float64(got[j]-want[i][j])) > 1e-6 {
				t.Errorf("vertex %d = %v, want %v", i, got, want[i])
				break
			}
		}
	}
	if tri.A.W != 1 {
		t.Errorf("positions should load as points, got W = %v", tri.A.W)
	}
}

func TestFromDocumentTruncatedBuffer(t *testing.T) {
	doc := quadDocument()
	doc.Buffers[0].Data = doc.Buffers[0].Data[:20]
	if _, err := (&GLTFLoader{}).FromDocument(doc); err == nil {
		t.Error("expected error for truncated buffer")
	}
}

func TestFromDocumentSequential(t *testing.T) {
	doc := quadDocument()
	doc.Meshes[0].Primitives[0].Indices = nil
	mesh, err := (&GLTFLoader{}).FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	// 4 positions without indices make one triangle; the fourth is dropped
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}
