package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/config"
)

func testConfig() config.CameraConfig {
	return config.CameraConfig{
		Distance: 20,
		Pitch:    1.0,
		FovY:     45,
		MinZoom:  0.5,
		MaxZoom:  2.0,
	}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNew(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	eye := cam.Eye()
	if got := r3.Norm(eye); !near(got, 20, 1e-9) {
		t.Errorf("expected eye 20 from target, got %f", got)
	}
	if eye.Y <= 0 || eye.Z <= 0 {
		t.Errorf("expected eye above and in front of the tray, got %v", eye)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	// Target should map to screen center
	sx, sy, ok := cam.WorldToScreen(cam.Target)
	if !ok || !near(sx, 640, 0.01) || !near(sy, 360, 0.01) {
		t.Errorf("expected screen center (640, 360), got (%f, %f, %v)", sx, sy, ok)
	}
}

func TestScreenAxes(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	sx, _, _ := cam.WorldToScreen(r3.Vec{X: 3})
	if sx <= 640 {
		t.Errorf("expected +X right of center, got x=%f", sx)
	}
	_, sy, _ := cam.WorldToScreen(r3.Vec{Z: -3})
	if sy >= 360 {
		t.Errorf("expected far row above center, got y=%f", sy)
	}
}

func TestBehindEye(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	behind := r3.Add(cam.Eye(), r3.Sub(cam.Eye(), cam.Target))
	if _, _, ok := cam.WorldToScreen(behind); ok {
		t.Error("expected point behind the eye to be rejected")
	}
}

func TestRayRoundtrip(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	testCases := []struct{ sx, sy float64 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		origin, dir := cam.Ray(tc.sx, tc.sy)
		if !near(r3.Norm(dir), 1, 1e-9) {
			t.Errorf("ray direction not unit: %v", dir)
		}
		p := r3.Add(origin, r3.Scale(15, dir))
		sx, sy, ok := cam.WorldToScreen(p)
		if !ok || !near(sx, tc.sx, 0.01) || !near(sy, tc.sy, 0.01) {
			t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.sx, tc.sy, p, sx, sy)
		}
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1)
	cam.ZoomBy(2)
	if got := r3.Norm(cam.Eye()); !near(got, 10, 1e-9) {
		t.Errorf("expected eye 10 from target at zoom 2, got %f", got)
	}
}

func TestOrbitAndReset(t *testing.T) {
	cam := New(testConfig(), 1280, 720)
	before := cam.Eye()

	cam.Orbit(math.Pi / 2)
	after := cam.Eye()
	if !near(after.Y, before.Y, 1e-9) {
		t.Errorf("orbit changed height: %f -> %f", before.Y, after.Y)
	}
	if after.X <= 0 {
		t.Errorf("expected eye on +X after quarter orbit, got %v", after)
	}

	cam.ZoomBy(1.5)
	cam.Reset()
	if cam.Zoom != 1 || cam.Yaw != 0 {
		t.Errorf("reset failed: zoom=%f yaw=%f", cam.Zoom, cam.Yaw)
	}
}

func TestRaySphere(t *testing.T) {
	origin := r3.Vec{Z: 10}
	dir := r3.Vec{Z: -1}

	tests := []struct {
		name   string
		center r3.Vec
		hit    bool
		dist   float64
	}{
		{"straight ahead", r3.Vec{}, true, 9},
		{"grazing", r3.Vec{X: 0.99}, true, 10 - math.Sqrt(1-0.99*0.99)},
		{"miss", r3.Vec{X: 2}, false, 0},
		{"behind", r3.Vec{Z: 20}, false, 0},
		{"inside", r3.Vec{Z: 10}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := RaySphere(origin, dir, tt.center, 1)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && !near(d, tt.dist, 1e-9) {
				t.Errorf("distance = %f, want %f", d, tt.dist)
			}
		})
	}
}
