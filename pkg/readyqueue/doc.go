/*
Package readyqueue is the channel from the concurrency-control phase to
the execution phase.

Transactions whose write sets have been populated are pushed here in
whatever order workers finish them; the heap re-imposes ascending
timestamp order on the way out. All access is serialized by one mutex.
The queue gives no cross-producer ordering guarantee beyond "every
pushed transaction becomes visible under the mutex" — the timestamp
order of pops is the only order consumers may rely on.
*/
package readyqueue
