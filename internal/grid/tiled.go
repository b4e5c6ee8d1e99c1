package grid

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"morphgrid/internal/core"
	"morphgrid/internal/schedule"
	"morphgrid/internal/surface"
)

// Tiled evaluates the grid as a data-parallel map over TileSize x TileSize
// tiles. Tiles are assigned to workers by stride, so workers share nothing but
// the read-only inputs and write disjoint cells; the only synchronization is
// the barrier at the end of the pass.
//
// Workers are started on the first Evaluate and stay parked between frames,
// so a pass allocates nothing beyond its sampler. Call Close to stop them.
// Evaluate calls are serialized.
type Tiled struct {
	// Workers is the number of goroutines; zero means GOMAXPROCS. It is read
	// when the workers start.
	Workers int

	mu    sync.Mutex
	pool  *errgroup.Group
	start chan int
	done  sync.WaitGroup
	size  int
	job   tileJob
}

// tileJob is the read-only input of one pass.
type tileJob struct {
	f       surface.Func
	pos     []core.Vec3
	res     int
	perAxis int
	tiles   int
	stride  int
	step    float32
	t       float32
}

func (j *tileJob) run(w int) {
	for tile := w; tile < j.tiles; tile += j.stride {
		x0 := (tile % j.perAxis) * TileSize
		z0 := (tile / j.perAxis) * TileSize
		for z := z0; z < z0+TileSize && z < j.res; z++ {
			v := cellCenter(z, j.step)
			row := z * j.res
			for x := x0; x < x0+TileSize && x < j.res; x++ {
				j.pos[row+x] = j.f(cellCenter(x, j.step), v, j.t)
			}
		}
	}
}

// NewTiled returns a Tiled evaluator with the given worker count.
func NewTiled(workers int) *Tiled {
	return &Tiled{Workers: workers}
}

// Name implements Evaluator.
func (*Tiled) Name() string { return "tiled" }

func (e *Tiled) spawn() {
	n := e.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	start := make(chan int)
	e.size = n
	e.start = start
	e.pool = new(errgroup.Group)
	for i := 0; i < n; i++ {
		e.pool.Go(func() error {
			for w := range start {
				e.job.run(w)
				e.done.Done()
			}
			return nil
		})
	}
	core.Logger().Debug("tiled workers started", "workers", n)
}

// Evaluate implements Evaluator.
func (e *Tiled) Evaluate(cfg Config, st schedule.State, t float32, out *core.PositionBuffer) error {
	if err := checkBuffer(cfg, out); err != nil {
		return err
	}
	f := sampler(st)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.start == nil {
		e.spawn()
	}
	perAxis := cfg.Tiles()
	tiles := perAxis * perAxis
	e.job = tileJob{
		f:       f,
		pos:     out.Positions(),
		res:     cfg.Resolution,
		perAxis: perAxis,
		tiles:   tiles,
		stride:  min(e.size, tiles),
		step:    cfg.Step(),
		t:       t,
	}
	e.done.Add(e.job.stride)
	for w := 0; w < e.job.stride; w++ {
		e.start <- w
	}
	e.done.Wait()
	e.job = tileJob{}
	return nil
}

// Close stops the workers. A later Evaluate starts them again.
func (e *Tiled) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.start == nil {
		return nil
	}
	close(e.start)
	err := e.pool.Wait()
	e.start, e.pool, e.size = nil, nil, 0
	return err
}
