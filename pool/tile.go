// File: pool/tile.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tile planner: converts a strided 1D/2D/3D iteration space into a
// single flat tile-index submission over Run, then reverses the
// linearization inside the per-tile callback.

package pool

import "github.com/momentics/hioload-tpool/api"

// singleThreadCostThreshold is the coarse amortization threshold below
// which thread-pool overhead is assumed to dominate over the work
// itself; mirrors kMaxCostUsingSingleThread.
const singleThreadCostThreshold = 100

func itemsInAxis(start, end, step int) int {
	return 1 + (end-start-1)/step
}

func ceilDiv(items, tileSize int) int {
	return (items + tileSize - 1) / tileSize
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Compute1D implements api.Pool.
func (p *Pool) Compute1D(cb api.RangeFunc, start, end, step, tileSize int, costPerItem int) {
	if start >= end {
		return
	}
	items := itemsInAxis(start, end, step)
	if p.threadCount <= 1 || (costPerItem >= 0 && items*costPerItem < singleThreadCostThreshold) {
		cb(start, end, step)
		return
	}

	if tileSize == 0 {
		tileSize = maxInt(1, items/p.defaultTileCount)
	}
	stepTileSize := step * tileSize
	tileCount := ceilDiv(items, tileSize)

	p.Run(func(tileIdx int) {
		tileStart := start + tileIdx*stepTileSize
		tileEnd := minInt(end, tileStart+stepTileSize)
		cb(tileStart, tileEnd, step)
	}, tileCount)
}

// Compute2D implements api.Pool.
func (p *Pool) Compute2D(cb api.RangeFunc2D, start0, end0, step0, start1, end1, step1 int, tileSize0, tileSize1 int, costPerItem int) {
	if start0 >= end0 || start1 >= end1 {
		return
	}
	items0 := itemsInAxis(start0, end0, step0)
	items1 := itemsInAxis(start1, end1, step1)
	if p.threadCount <= 1 || (costPerItem >= 0 && items0*items1*costPerItem < singleThreadCostThreshold) {
		cb(start0, end0, step0, start1, end1, step1)
		return
	}

	if tileSize0 == 0 || tileSize1 == 0 {
		if items0 >= p.defaultTileCount {
			tileSize0 = items0 / p.defaultTileCount
			tileSize1 = items1
		} else {
			tileSize0 = 1
			tileSize1 = maxInt(1, items1*items0/p.defaultTileCount)
		}
	}

	stepTileSize0 := step0 * tileSize0
	stepTileSize1 := step1 * tileSize1
	tileCount0 := ceilDiv(items0, tileSize0)
	tileCount1 := ceilDiv(items1, tileSize1)

	p.Run(func(tileIdx int) {
		tileIdx0 := tileIdx / tileCount1
		tileIdx1 := tileIdx - tileIdx0*tileCount1
		tileStart0 := start0 + tileIdx0*stepTileSize0
		tileEnd0 := minInt(end0, tileStart0+stepTileSize0)
		tileStart1 := start1 + tileIdx1*stepTileSize1
		tileEnd1 := minInt(end1, tileStart1+stepTileSize1)
		cb(tileStart0, tileEnd0, step0, tileStart1, tileEnd1, step1)
	}, tileCount0*tileCount1)
}

// Compute3D implements api.Pool. The axis-2 emptiness check compares
// against axis-2's own end, unlike the reference implementation this
// protocol is grounded on, which mistakenly compared start2 against
// axis-1's end.
func (p *Pool) Compute3D(cb api.RangeFunc3D, start0, end0, step0, start1, end1, step1, start2, end2, step2 int, tileSize0, tileSize1, tileSize2 int, costPerItem int) {
	if start0 >= end0 || start1 >= end1 || start2 >= end2 {
		return
	}
	items0 := itemsInAxis(start0, end0, step0)
	items1 := itemsInAxis(start1, end1, step1)
	items2 := itemsInAxis(start2, end2, step2)
	if p.threadCount <= 1 || (costPerItem >= 0 && items0*items1*items2*costPerItem < singleThreadCostThreshold) {
		cb(start0, end0, step0, start1, end1, step1, start2, end2, step2)
		return
	}

	if tileSize0 == 0 || tileSize1 == 0 || tileSize2 == 0 {
		if items0 >= p.defaultTileCount {
			tileSize0 = items0 / p.defaultTileCount
			tileSize1 = items1
			tileSize2 = items2
		} else {
			tileSize0 = 1
			items01 := items0 * items1
			if items01 >= p.defaultTileCount {
				tileSize1 = items01 / p.defaultTileCount
				tileSize2 = items2
			} else {
				tileSize1 = 1
				tileSize2 = maxInt(1, items01*items2/p.defaultTileCount)
			}
		}
	}

	stepTileSize0 := step0 * tileSize0
	stepTileSize1 := step1 * tileSize1
	stepTileSize2 := step2 * tileSize2
	tileCount0 := ceilDiv(items0, tileSize0)
	tileCount1 := ceilDiv(items1, tileSize1)
	tileCount2 := ceilDiv(items2, tileSize2)
	tileCount12 := tileCount1 * tileCount2

	p.Run(func(tileIdx int) {
		tileIdx0 := tileIdx / tileCount12
		tileIdx12 := tileIdx - tileIdx0*tileCount12
		tileIdx1 := tileIdx12 / tileCount2
		tileIdx2 := tileIdx12 - tileIdx1*tileCount2

		tileStart0 := start0 + tileIdx0*stepTileSize0
		tileEnd0 := minInt(end0, tileStart0+stepTileSize0)
		tileStart1 := start1 + tileIdx1*stepTileSize1
		tileEnd1 := minInt(end1, tileStart1+stepTileSize1)
		tileStart2 := start2 + tileIdx2*stepTileSize2
		tileEnd2 := minInt(end2, tileStart2+stepTileSize2)

		cb(tileStart0, tileEnd0, step0, tileStart1, tileEnd1, step1, tileStart2, tileEnd2, step2)
	}, tileCount0*tileCount12)
}
