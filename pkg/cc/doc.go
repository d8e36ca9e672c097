/*
Package cc implements the concurrency-control workers.

A worker's life is a loop over the shared batch dispatcher:

	spin until start
	while not quit:
	    claim a batch [start, end)
	    copy the slice into a local batch, sort by timestamp
	    for each transaction, ascending:
	        install a placeholder for every owned write task
	        push the transaction onto the ready queue
	        count it
	    signal the ready queue once

Two implementations share that skeleton. BohmWorker resolves ownership
with the static map's lock-free modulo predicate and uses the store's
strict prepend — the sort plus the fixed single owner per key guarantee
installs arrive in increasing timestamp order. GatoWorker resolves
ownership through the adaptive map's mutex, records itself as each
written key's last writer, uses the ordered install path (a migration
can deliver a key's install below the chain head), and after every
batch feeds the load vector and performs at most one key migration when
the load spread crosses its threshold.

The commit counter counts transactions placed on the ready queue; it is
a throughput metric, not a serializability verdict. In the adaptive
variant a transaction touching an unmanaged key is pushed but not
counted.
*/
package cc
