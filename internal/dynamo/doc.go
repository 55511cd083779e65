// Package dynamo provides the core primitives shared by the scene components.
//
// The package defines the small value types that flow between the physics
// world, the entity binding table and the renderers:
//
//   - [Vec2]: a 2D vector in physics or camera space
//   - [BodyID]: an opaque handle to a body owned by the physics world
//   - [BodyType]: static or dynamic
//   - [Pose]: a render position and rotation in degrees
//
// # Ownership
//
// A [BodyID] never owns anything. The physics world is the single source of
// truth for whether the body it names is still alive; callers must ask the
// world before dereferencing it.
package dynamo
