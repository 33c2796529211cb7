package compare

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/roach88/execdiff/internal/align"
)

// ScreenshotTree is the pairwise screenshot comparison of two executions.
// Root has one test_run child per matched row of test runs; only runs present
// in both executions carry an action tree.
type ScreenshotTree struct {
	Baseline string      `json:"baseline,omitempty"`
	Other    string      `json:"other,omitempty"`
	Root     *align.Node `json:"root"`
}

// ScreenshotRequest asks for a screenshot comparison. ExecutionIDs holds
// either nothing or the baseline followed by the other execution.
type ScreenshotRequest struct {
	ExecutionIDs []string
	WithContent  bool
}

// pair is one matched test run in both executions.
type pair struct {
	name     string
	baseline string
	other    string
}

// CompareScreenshots matches the test runs of two executions and rebuilds
// the action tree of each matched pair. Pairs are built concurrently; a pair
// that fails is logged and contributes an empty subtree.
func (s *Service) CompareScreenshots(ctx context.Context, req ScreenshotRequest) (ScreenshotTree, error) {
	ids := req.ExecutionIDs
	if err := validateIDs(ids); err != nil {
		return ScreenshotTree{}, err
	}
	if len(ids) == 0 {
		return ScreenshotTree{Root: &align.Node{Kind: align.NodeRoot, Children: []*align.Node{}}}, nil
	}
	if len(ids) != 2 {
		return ScreenshotTree{}, &RequestError{
			Code:    CodeInvalidPair,
			Message: fmt.Sprintf("screenshot comparison needs exactly two executions, got %d", len(ids)),
		}
	}

	m, err := s.matchTestRuns(ctx, ids)
	if err != nil {
		return ScreenshotTree{}, err
	}

	runNodes := make([]*align.Node, len(m.Rows))
	var pairs []int
	var work []pair
	for k, row := range m.Rows {
		first := row.First()
		runNodes[k] = &align.Node{Name: first.Payload.Name, Kind: align.NodeTestRun, Children: []*align.Node{}}
		if row.Slots[0].Empty() || row.Slots[1].Empty() {
			continue
		}
		pairs = append(pairs, k)
		work = append(work, pair{
			name:     first.Payload.Name,
			baseline: row.Slots[0].Record.Payload.ID,
			other:    row.Slots[1].Record.Payload.ID,
		})
	}

	p := pool.New().WithMaxGoroutines(s.concurrency)
	for k, w := range work {
		node := runNodes[pairs[k]]
		p.Go(func() {
			children, err := s.buildPair(ctx, w, req.WithContent)
			if err != nil {
				s.logger.Warn("screenshot pair failed",
					"pair", w.baseline+"/"+w.other,
					"test_run", w.name,
					"error", err,
				)
				return
			}
			node.Children = children
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return ScreenshotTree{}, err
	}

	return ScreenshotTree{
		Baseline: ids[0],
		Other:    ids[1],
		Root:     &align.Node{Kind: align.NodeRoot, Children: runNodes},
	}, nil
}

// buildPair aligns the log records of one test run pair and regroups them.
func (s *Service) buildPair(ctx context.Context, w pair, withContent bool) ([]*align.Node, error) {
	base, err := s.seq.LogRecordSequence(ctx, w.baseline)
	if err != nil {
		return nil, fmt.Errorf("fetch log records of %s: %w", w.baseline, err)
	}
	other, err := s.seq.LogRecordSequence(ctx, w.other)
	if err != nil {
		return nil, fmt.Errorf("fetch log records of %s: %w", w.other, err)
	}

	m := align.Align([][]*align.Record{
		align.DeriveSequence(w.baseline, base),
		align.DeriveSequence(w.other, other),
	})
	align.Order(m)
	align.ApplyDeltas(m)

	var fetch align.ScreenshotFunc
	if withContent && s.blobs != nil {
		fetch = func(stepID string) (*align.Attachment, error) {
			shot, err := s.blobs.Screenshot(ctx, stepID)
			if err != nil || shot == nil {
				return nil, err
			}
			return &align.Attachment{ContentType: shot.ContentType, Data: shot.Data}, nil
		}
	}

	nodes, err := align.BuildTree(m, fetch)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}
