package fonts

import "testing"

func TestFace(t *testing.T) {
	face, err := Face(nil, 24)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	defer face.Close()

	if h := face.Metrics().Height.Ceil(); h < 20 || h > 40 {
		t.Errorf("line height = %d, want roughly 24pt", h)
	}
}

func TestFaceRejectsGarbage(t *testing.T) {
	if _, err := Face([]byte("not a font"), 12); err == nil {
		t.Error("Face() accepted invalid font data")
	}
}
