// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal_test

import (
	"math/rand/v2"
	"sync"
	"testing"

	"code.hybscloud.com/universal"
	"code.hybscloud.com/universal/internal/history"
)

func TestLinearizableRegister(t *testing.T) {
	u := universal.New()
	c := universal.NewCell(0)
	rec := history.NewRecorder()

	const clients, ops = 4, 40
	var wg sync.WaitGroup
	wg.Add(clients)
	for client := range clients {
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(uint64(client), 1))
			for range ops {
				if rng.IntN(2) == 0 {
					v := rng.IntN(100)
					id := rec.Call(client, history.RegisterInput{Write: true, Value: v})
					if err := u.Exec(store(c, v)); err != nil {
						t.Error(err)
					}
					rec.Return(client, id, history.RegisterOutput{})
					continue
				}
				id := rec.Call(client, history.RegisterInput{})
				v, err := universal.Submit(u, read(c))
				if err != nil {
					t.Error(err)
				}
				rec.Return(client, id, history.RegisterOutput{Value: v})
			}
		}()
	}
	wg.Wait()

	ok, err := history.Check(history.RegisterModel(0), rec.Events())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("register history is not linearizable")
	}
}

// TestLinearizableFetchAdd checks a read-modify-write object: every returned
// previous value is distinct and the final value equals the number of adds.
func TestLinearizableFetchAdd(t *testing.T) {
	u := universal.New()
	c := universal.NewCell(0)
	fetchAdd := func(tx *universal.Tx) (int, error) {
		v, err := c.Read(tx)
		if err != nil {
			return 0, err
		}
		c.Write(tx, v+1)
		return v, nil
	}

	const goroutines, ops = 16, 100
	seen := make([][]int, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := range goroutines {
		go func() {
			defer wg.Done()
			for range ops {
				v, err := universal.Submit(u, fetchAdd)
				if err != nil {
					t.Error(err)
					return
				}
				seen[g] = append(seen[g], v)
			}
		}()
	}
	wg.Wait()

	taken := make([]bool, goroutines*ops)
	for g := range seen {
		last := -1
		for _, v := range seen[g] {
			if v <= last {
				t.Fatalf("goroutine %d saw %d after %d", g, v, last)
			}
			last = v
			if taken[v] {
				t.Fatalf("value %d returned twice", v)
			}
			taken[v] = true
		}
	}
	if v, _ := c.Committed(); v != goroutines*ops {
		t.Fatalf("final %d, want %d", v, goroutines*ops)
	}
}
