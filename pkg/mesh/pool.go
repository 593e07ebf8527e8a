package mesh

import (
	"context"
	"sync"

	"blockpop/pkg/voxel"
)

// Job is a request to mesh one padded chunk.
type Job[V voxel.MeshVoxel] struct {
	Shape  Shape
	Voxels []V
	Coord  [3]int32
	// Result channel - will be sent the result when done
	Result chan Result
}

// Result contains the output of one meshing job. Groups hold copies in
// native prefix order, so Groups[f][:bucketPrefix] stays valid after the
// worker reuses its scratch buffers.
type Result struct {
	Coord   [3]int32
	Buckets [8]uint32
	Groups  [6][]UnitQuad
}

// Pool runs visible-faces meshing jobs across a fixed set of workers. Each
// worker owns one (PopBuffer, VisitedBuffer) pair for its whole lifetime, so
// no meshing call ever shares scratch state.
type Pool[V voxel.MeshVoxel] struct {
	jobQueue chan Job[V]
	workers  int
	m        int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPool creates a meshing pool with the given worker count, job queue size
// and LOD class count. Workers allocate their scratch lazily on the first
// job, sized to that job's shape; all jobs submitted to one pool must share
// a shape.
func NewPool[V voxel.MeshVoxel](workers, queueSize, m int) *Pool[V] {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &Pool[V]{
		jobQueue: make(chan Job[V], queueSize),
		workers:  workers,
		m:        m,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// SubmitJob submits a meshing job to the pool.
// Returns true if the job was queued, false if the queue is full.
func (p *Pool[V]) SubmitJob(job Job[V]) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// SubmitJobBlocking submits a job and blocks until it is queued.
func (p *Pool[V]) SubmitJobBlocking(job Job[V]) {
	select {
	case p.jobQueue <- job:
	case <-p.ctx.Done():
	}
}

func (p *Pool[V]) worker(id int) {
	defer p.wg.Done()

	var (
		pop     *PopBuffer[UnitQuad]
		visited *VisitedBuffer
	)

	for {
		select {
		case job := <-p.jobQueue:
			if pop == nil {
				pop = NewPopBuffer[UnitQuad](p.m)
				visited = NewVisitedBuffer(job.Shape.Size())
			}

			VisibleFacesQuads(job.Shape, job.Voxels, visited, pop)

			result := Result{
				Coord:   job.Coord,
				Buckets: pop.Buckets(),
			}
			for f := range pop.groups {
				result.Groups[f] = append([]UnitQuad(nil), pop.groups[f].quads...)
			}

			select {
			case job.Result <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown cancels the workers and waits for them to exit.
func (p *Pool[V]) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// QueueLength returns the number of jobs waiting in the queue.
func (p *Pool[V]) QueueLength() int {
	return len(p.jobQueue)
}
