/*
Package events provides an in-process broker for engine lifecycle
events.

The engine publishes run and worker lifecycle events, and the adaptive
variant publishes a key.migrated event per migration, carrying the key
and the source and destination workers in its metadata. Delivery is
best-effort: a subscriber whose buffer is full misses events rather
than stalling a CC worker. Nothing in the engine depends on an event
being observed.
*/
package events
