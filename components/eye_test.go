package components

import (
	"errors"
	"math"
	"testing"
)

func TestNewEye(t *testing.T) {
	eye, err := NewEye(0.5, math.Pi, 7)
	if err != nil {
		t.Fatalf("NewEye failed: %v", err)
	}
	if eye.FOVRange() != 0.5 {
		t.Errorf("FOVRange wrong: got %f, want 0.5", eye.FOVRange())
	}
	if eye.FOVAngle() != math.Pi {
		t.Errorf("FOVAngle wrong: got %f, want pi", eye.FOVAngle())
	}
	if eye.Cells() != 7 {
		t.Errorf("Cells wrong: got %d, want 7", eye.Cells())
	}
}

func TestNewEyeAllowsWideAngle(t *testing.T) {
	if _, err := NewEye(1, 4*math.Pi, 3); err != nil {
		t.Errorf("angle above 2pi should be allowed, got %v", err)
	}
}

func TestNewEyeRejectsNonPositive(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name  string
		rng   float32
		angle float32
		cells int
	}{
		{"zero range", 0, 1, 1},
		{"negative range", -0.1, 1, 1},
		{"NaN range", nan, 1, 1},
		{"zero angle", 1, 0, 1},
		{"negative angle", 1, -1, 1},
		{"zero cells", 1, 1, 0},
		{"negative cells", 1, 1, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEye(tt.rng, tt.angle, tt.cells)
			if !errors.Is(err, ErrInvalidEye) {
				t.Errorf("NewEye(%v, %v, %d) = %v, want ErrInvalidEye", tt.rng, tt.angle, tt.cells, err)
			}
		})
	}
}

func TestMustEyePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustEye should panic on invalid parameters")
		}
	}()
	MustEye(1, 1, 0)
}

func TestDefaultEye(t *testing.T) {
	eye := DefaultEye()
	if eye.Cells() != DefaultCells {
		t.Errorf("Cells wrong: got %d, want %d", eye.Cells(), DefaultCells)
	}
	if eye.FOVRange() != DefaultFOVRange {
		t.Errorf("FOVRange wrong: got %f, want %f", eye.FOVRange(), DefaultFOVRange)
	}
}

func TestControllerFunc(t *testing.T) {
	var got []float32
	ctl := ControllerFunc(func(vision []float32) Command {
		got = vision
		return Command{Speed: 0.1, Rotation: -0.2}
	})

	cmd := ctl.Decide([]float32{1, 2})
	if len(got) != 2 {
		t.Errorf("vision not forwarded: got %v", got)
	}
	if cmd.Speed != 0.1 || cmd.Rotation != -0.2 {
		t.Errorf("command wrong: got %+v", cmd)
	}
}
