// Package sensing provides the sensing capability used by sensor leaf nodes.
//
// A Registry owns every Sensor and Sensable of an environment; nothing is
// registered globally. Sensors find sensables of the same Sense inside their
// bounding volume (an axis aligned Box or a Sphere):
//
//	reg := sensing.NewRegistry()
//	eyes := sensing.NewSensor("eyes", sensing.Sight, func(o *sensing.SensorOptions) {
//		o.Shape = sensing.Sphere
//		o.Radius = 5
//	})
//	reg.AddSensor(eyes)
//	reg.AddSensable(sensing.NewSensable("intruder", sensing.Sight, core.Vec3{X: 2}))
//
//	if reg.Check(eyes) {
//		seen := reg.LastSensed(eyes)
//		_ = seen
//	}
package sensing
