package route

import (
	"container/heap"
	"context"
	"math"

	"github.com/searoute/searoute/internal/geo"
	"github.com/searoute/searoute/internal/grid"
)

// searchResult is one accepted segment path.
type searchResult struct {
	path           []grid.Key
	visited        int
	minClearanceKm float64
}

type searchNode struct {
	key            grid.Key
	g              float64 // accumulated cost-weighted distance
	f              float64 // g + great-circle heuristic
	minClearanceKm float64 // smallest land clearance along the path so far
	index          int
}

type nodeQueue []*searchNode

func (q nodeQueue) Len() int { return len(q) }

// Less orders by f; equal-cost nodes prefer the larger minimum clearance
// (the safer of equally cheap paths).
func (q nodeQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].minClearanceKm > q[j].minClearanceKm
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// findPath runs an A* search from start to goal. The clearance constraint
// is a hard filter on candidate cells, not a cost penalty: a cell closer
// than clearanceKm to land is never expanded. Edge cost is the destination
// cell's weather cost times the step distance; the great-circle distance
// heuristic is admissible because the cheapest possible cell cost is 1.
func (p *Planner) findPath(ctx context.Context, start, goal grid.Key, clearanceKm float64, maxVisited int) (searchResult, error) {
	g := p.grid
	startPt := g.Center(start)
	goalPt := g.Center(goal)
	directKm := geo.Haversine(startPt, goalPt)

	open := &nodeQueue{}
	heap.Init(open)
	heap.Push(open, &searchNode{
		key:            start,
		g:              0,
		f:              directKm,
		minClearanceKm: g.DistanceToLandKm(start),
	})

	bestG := map[grid.Key]float64{start: 0}
	cameFrom := map[grid.Key]grid.Key{}
	closed := map[grid.Key]bool{}

	visited := 0
	bestRemaining := directKm

	for open.Len() > 0 {
		if visited%256 == 0 {
			if err := ctx.Err(); err != nil {
				return searchResult{}, err
			}
		}
		if maxVisited > 0 && visited >= maxVisited {
			break
		}

		current := heap.Pop(open).(*searchNode)
		if closed[current.key] {
			continue
		}
		closed[current.key] = true
		visited++

		if current.key == goal {
			return searchResult{
				path:           reconstruct(cameFrom, goal),
				visited:        visited,
				minClearanceKm: current.minClearanceKm,
			}, nil
		}

		currentPt := g.Center(current.key)
		if remaining := geo.Haversine(currentPt, goalPt); remaining < bestRemaining {
			bestRemaining = remaining
		}

		for _, nk := range g.Neighbors(current.key) {
			if closed[nk] || !g.IsTraversable(nk) {
				continue
			}
			clear := g.DistanceToLandKm(nk)
			if clear < clearanceKm {
				continue
			}

			nPt := g.Center(nk)
			stepKm := geo.Haversine(currentPt, nPt)
			tentative := current.g + stepKm*float64(g.Cost(nk))
			if prev, seen := bestG[nk]; seen && tentative >= prev {
				continue
			}
			bestG[nk] = tentative
			cameFrom[nk] = current.key
			heap.Push(open, &searchNode{
				key:            nk,
				g:              tentative,
				f:              tentative + geo.Haversine(nPt, goalPt),
				minClearanceKm: math.Min(current.minClearanceKm, clear),
			})
		}
	}

	return searchResult{}, &NoPathFoundError{
		From:           startPt,
		To:             goalPt,
		VisitedNodes:   visited,
		BestProgressKm: directKm - bestRemaining,
	}
}

func reconstruct(cameFrom map[grid.Key]grid.Key, goal grid.Key) []grid.Key {
	path := []grid.Key{goal}
	for {
		prev, ok := cameFrom[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, prev)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
