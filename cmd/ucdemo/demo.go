// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/universal"
	"code.hybscloud.com/universal/queue"
)

var demoInputs = []int{0, 8, 17}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Three workers each enqueue one value then dequeue one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout(), universal.New())
		},
	}
}

// runDemo prints one line per worker: "worker <i> <value>", or
// "worker <i> empty" when its dequeue found nothing.
func runDemo(w io.Writer, u *universal.Universal) error {
	q := queue.New[int](u)
	var mu sync.Mutex
	var g errgroup.Group
	for i, v := range demoInputs {
		g.Go(func() error {
			if err := q.Enqueue(v); err != nil {
				return errors.Wrapf(err, "worker %d enqueue", i)
			}
			out, err := q.Dequeue()
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, queue.ErrEmpty):
				_, err = fmt.Fprintf(w, "worker %d empty\n", i)
			case err != nil:
				return errors.Wrapf(err, "worker %d dequeue", i)
			default:
				_, err = fmt.Fprintf(w, "worker %d %d\n", i, out)
			}
			return err
		})
	}
	return g.Wait()
}
