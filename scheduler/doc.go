// Package scheduler implements the cooperative tick scheduler that drives
// behavior node computations.
//
// A Computation is a pull-style sequence of Instructions. Each Tick advances
// every computation that was active when the tick started by exactly one
// step, in enqueue order:
//
//	s := scheduler.New(func(o *scheduler.Options) { o.Workers = 8 })
//	defer s.Close()
//
//	s.Submit(root, bb, cell)
//	for !cell.Done() {
//		if err := s.Tick(); err != nil {
//			return err
//		}
//	}
//
// Sleep re-enqueues a computation from a timer, BranchFanOut hands branches to
// a bounded worker Pool, and Await parks a computation until a predicate holds.
package scheduler
