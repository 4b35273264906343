/*
Package taskqueue provides the FIFO mailbox that feeds a worker pool.

A Queue is a logically unbounded sequence guarded by one mutex and one
condition variable. Producers Push items; consumers Pop them, suspending
while the queue is empty. Closing the queue is the shutdown signal: Push is
rejected from then on, waiting consumers are woken, and Pop keeps returning
items until the queue is drained before reporting shutdown.

	q := taskqueue.New[func()]()

	go func() {
		for {
			task, ok := q.Pop()
			if !ok {
				return // closed and drained
			}
			task()
		}
	}()

	_ = q.Push(func() { fmt.Println("hello") })
	q.Close()

Every pushed item is delivered to exactly one Pop caller, in push order.
*/
package taskqueue
