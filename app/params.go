package app

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/camera"
	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/pool"
	"github.com/pthm-cable/pasture/scene"
	"github.com/pthm-cable/pasture/world"
)

// Conversions from the YAML config into component parameters.

// LayoutFor returns the scene layout for a world of the given size.
func LayoutFor(cfg *config.Config, worldSize float32) scene.Layout {
	return scene.Layout{
		WorldSize: worldSize,
		Scale:     float32(cfg.Layout.Scale),
		GroundY:   float32(cfg.Layout.GroundY),
	}
}

// StyleFor returns the instance transform style.
func StyleFor(cfg *config.Config, layout scene.Layout) pool.Style {
	return pool.Style{
		Layout:      layout,
		DeadTilt:    mgl32.DegToRad(float32(cfg.Layout.DeadTilt)),
		AgentScale:  float32(cfg.Layout.AgentScale),
		ForageScale: float32(cfg.Layout.ForageScale),
	}
}

// LensFor returns the camera lens.
func LensFor(cfg *config.Config) camera.Lens {
	return camera.Lens{
		FovY: float32(cfg.Camera.FovY),
		Near: float32(cfg.Camera.Near),
		Far:  float32(cfg.Camera.Far),
	}
}

// OrbitParamsFor returns the free camera parameters.
func OrbitParamsFor(cfg *config.Config) camera.OrbitParams {
	o := cfg.Camera.Orbit
	return camera.OrbitParams{
		Yaw:         float32(o.Yaw),
		Pitch:       float32(o.Pitch),
		Distance:    float32(o.Distance),
		MinDistance: float32(o.MinDistance),
		MaxDistance: float32(o.MaxDistance),
		MinPitch:    float32(o.MinPitch),
		MaxPitch:    float32(o.MaxPitch),
		RotateSpeed: float32(o.RotateSpeed),
		PanSpeed:    float32(o.PanSpeed),
	}
}

// TrackingParamsFor returns the follow camera parameters.
func TrackingParamsFor(cfg *config.Config) camera.TrackingParams {
	t := cfg.Camera.Tracking
	return camera.TrackingParams{
		Offset:          mgl32.Vec3{float32(t.Offset[0]), float32(t.Offset[1]), float32(t.Offset[2])},
		Zoom:            float32(t.Zoom),
		MinZoom:         float32(t.MinZoom),
		MaxZoom:         float32(t.MaxZoom),
		ZoomStep:        float32(t.ZoomStep),
		SubstituteHover: t.SubstituteHover,
	}
}

// WorldParamsFor returns the reference world parameters.
func WorldParamsFor(cfg *config.Config) world.Params {
	w := cfg.World
	return world.Params{
		Size:          cfg.Derived.WorldSize32,
		Predators:     w.Predators,
		Prey:          w.Prey,
		Forage:        w.Forage,
		MaxForage:     w.MaxForage,
		MaxPredators:  w.MaxPredators,
		MaxPrey:       w.MaxPrey,
		ForageSpawn:   float32(w.ForageSpawn),
		ForageRegrow:  float32(w.ForageRegrow),
		DT:            w.DT,
		Substeps:      w.Substeps,
		NoiseScale:    float32(w.NoiseScale),
		WanderNoise:   float32(w.WanderNoise),
		EatRange:      float32(w.EatRange),
		GrazeRate:     float32(w.GrazeRate),
		StarveDamage:  float32(w.StarveDamage),
		MutationRate:  float32(w.MutationRate),
		MutationScale: float32(w.MutationScale),
	}
}
