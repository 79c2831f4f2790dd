package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestPoint3D_VectorOps(t *testing.T) {
	t.Run("sub", func(t *testing.T) {
		p := Point3D{X: 3, Y: 5, Z: 7}
		q := Point3D{X: 1, Y: 2, Z: 3}

		r := p.Sub(q)
		if r.X != 2 || r.Y != 3 || r.Z != 4 {
			t.Errorf("Sub = %+v, want {2 3 4}", r)
		}
	})

	t.Run("dot", func(t *testing.T) {
		p := Point3D{X: 1, Y: 2, Z: 3}
		q := Point3D{X: 4, Y: -5, Z: 6}

		if got := p.Dot(q); got != 12 {
			t.Errorf("Dot = %f, want 12", got)
		}
	})

	t.Run("cross is orthogonal to both inputs", func(t *testing.T) {
		p := Point3D{X: 1, Y: 0.5, Z: -0.2}
		q := Point3D{X: -0.3, Y: 1, Z: 0.4}

		c := p.Cross(q)
		if math.Abs(c.Dot(p)) > epsilon || math.Abs(c.Dot(q)) > epsilon {
			t.Errorf("cross product not orthogonal: c·p=%f c·q=%f", c.Dot(p), c.Dot(q))
		}
	})

	t.Run("cross follows right-hand rule", func(t *testing.T) {
		x := Point3D{X: 1}
		y := Point3D{Y: 1}

		c := x.Cross(y)
		if c.Z != 1 || c.X != 0 || c.Y != 0 {
			t.Errorf("x cross y = %+v, want {0 0 1}", c)
		}
	})

	t.Run("dist", func(t *testing.T) {
		a := Point3D{X: 1, Y: 2, Z: 3}
		b := Point3D{X: 4, Y: 6, Z: 3}

		if got := Dist(a, b); math.Abs(got-5.0) > epsilon {
			t.Errorf("Dist = %f, want 5", got)
		}
	})
}

func TestHandLandmarks_Bounds(t *testing.T) {
	t.Run("known box", func(t *testing.T) {
		hand := HandLandmarks{}
		for i := 0; i < NumLandmarks; i++ {
			hand.Points[i] = Point3D{X: 0.4, Y: 0.5}
		}
		hand.Points[3] = Point3D{X: 0.2, Y: 0.3}
		hand.Points[17] = Point3D{X: 0.6, Y: 0.75}

		w, h := hand.Bounds()
		if math.Abs(w-0.4) > epsilon {
			t.Errorf("width = %f, want 0.4", w)
		}
		if math.Abs(h-0.45) > epsilon {
			t.Errorf("height = %f, want 0.45", h)
		}
	})

	t.Run("degenerate single point", func(t *testing.T) {
		hand := HandLandmarks{}
		for i := 0; i < NumLandmarks; i++ {
			hand.Points[i] = Point3D{X: 0.5, Y: 0.5}
		}

		w, h := hand.Bounds()
		if w != 0 || h != 0 {
			t.Errorf("Bounds = (%f, %f), want (0, 0)", w, h)
		}
	})
}

func TestBoxedHandLandmarks(t *testing.T) {
	cases := []struct {
		name string
		w, h float64
	}{
		{"small box", 0.05, 0.05},
		{"medium box", 0.2, 0.3},
		{"wide box", 0.5, 0.35},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hand := BoxedHandLandmarks(0.5, 0.5, tc.w, tc.h)

			w, h := hand.Bounds()
			if math.Abs(w-tc.w) > 1e-6 {
				t.Errorf("width = %f, want %f", w, tc.w)
			}
			if math.Abs(h-tc.h) > 1e-6 {
				t.Errorf("height = %f, want %f", h, tc.h)
			}
		})
	}
}

func TestFixtureShapes(t *testing.T) {
	t.Run("open palm fingertips are far from wrist", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		wrist := hand.Points[Wrist]

		var sum float64
		for _, tip := range Fingertips {
			sum += Dist(wrist, hand.Points[tip])
		}
		mean := sum / 5

		if mean < 0.3 {
			t.Errorf("open palm mean fingertip distance = %f, want >= 0.3", mean)
		}
	})

	t.Run("closed fist fingertips are near wrist", func(t *testing.T) {
		hand := ClosedFistLandmarks()
		wrist := hand.Points[Wrist]

		var sum float64
		for _, tip := range Fingertips {
			sum += Dist(wrist, hand.Points[tip])
		}
		mean := sum / 5

		if mean > 0.12 {
			t.Errorf("closed fist mean fingertip distance = %f, want <= 0.12", mean)
		}
	})

	t.Run("palm center is the middle knuckle", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		if hand.PalmCenter() != hand.Points[MiddleMCP] {
			t.Error("PalmCenter should return the middle MCP landmark")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("sequence repeats last frame", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([][]HandLandmarks{
			{OpenPalmLandmarks()},
			nil,
		})

		first, _ := mock.Detect(nil)
		if len(first) != 1 {
			t.Fatalf("frame 1: expected 1 hand, got %d", len(first))
		}
		for i := 0; i < 3; i++ {
			hands, _ := mock.Detect(nil)
			if len(hands) != 0 {
				t.Fatalf("frame %d: expected no hands, got %d", i+2, len(hands))
			}
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		wantErr := errors.New("detector offline")
		mock.SetError(wantErr)

		if _, err := mock.Detect(nil); !errors.Is(err, wantErr) {
			t.Errorf("Detect() error = %v, want %v", err, wantErr)
		}
	})
}
