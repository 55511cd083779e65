// Package physics wraps the Box2D engine behind handle-addressed bodies.
//
// The [World] is the only owner of simulated bodies. Other components hold
// [dynamo.BodyID] values and must ask [World.IsAlive] before use:
//
//	w := physics.NewWorld(dynamo.V(0, -10), true)
//	id := w.CreateBody(physics.BodyDef{Type: dynamo.Dynamic, Position: dynamo.V(0, 1)})
//	_ = w.AddCircle(id, dynamo.Vec2{}, 0.1, physics.Material{Density: 0.5})
//	_ = w.Step(1.0/60, 6, 2)
//
// # Iteration
//
// [World.Bodies] returns a snapshot in insertion order, so destroying
// bodies while visiting them never skips or repeats one.
package physics
