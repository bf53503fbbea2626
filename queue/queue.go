// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue provides a lock-free FIFO queue written as a plain sequential
// linked list over universal cells.
package queue

import (
	"errors"

	"code.hybscloud.com/universal"
)

// ErrEmpty is returned by Dequeue when the queue holds no value.
var ErrEmpty = errors.New("queue: empty")

// element is a list node; its value is immutable and its link is a cell.
type element[T any] struct {
	value T
	next  *universal.Cell[*element[T]]
}

func newElement[T any](v T) *element[T] {
	return &element[T]{value: v, next: universal.NewCell[*element[T]](nil)}
}

// Queue is a FIFO queue safe for concurrent use.
// Head points at a sentinel whose successor is the first value.
type Queue[T any] struct {
	u    *universal.Universal
	head *universal.Cell[*element[T]]
	tail *universal.Cell[*element[T]]
}

// New creates an empty queue whose operations run on u.
func New[T any](u *universal.Universal) *Queue[T] {
	var zero T
	sentinel := newElement(zero)
	return &Queue[T]{
		u:    u,
		head: universal.NewCell(sentinel),
		tail: universal.NewCell(sentinel),
	}
}

// Enqueue appends v at the tail.
func (q *Queue[T]) Enqueue(v T) error {
	return q.u.Exec(func(tx *universal.Tx) error {
		// Allocated per attempt: losing attempts must not share a node
		// with the winning one.
		e := newElement(v)
		last, err := q.tail.Read(tx)
		if err != nil {
			return err
		}
		last.next.Write(tx, e)
		q.tail.Write(tx, e)
		return nil
	})
}

// Dequeue removes and returns the value at the head.
// It returns ErrEmpty if the queue is empty.
func (q *Queue[T]) Dequeue() (T, error) {
	return universal.Submit(q.u, func(tx *universal.Tx) (T, error) {
		var zero T
		first, err := q.head.Read(tx)
		if err != nil {
			return zero, err
		}
		last, err := q.tail.Read(tx)
		if err != nil {
			return zero, err
		}
		if first == last {
			return zero, ErrEmpty
		}
		next, err := first.next.Read(tx)
		if err != nil {
			return zero, err
		}
		q.head.Write(tx, next)
		return next.value, nil
	})
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() (int, error) {
	return universal.Submit(q.u, func(tx *universal.Tx) (int, error) {
		e, err := q.head.Read(tx)
		if err != nil {
			return 0, err
		}
		last, err := q.tail.Read(tx)
		if err != nil {
			return 0, err
		}
		n := 0
		for e != last {
			if e, err = e.next.Read(tx); err != nil {
				return 0, err
			}
			n++
		}
		return n, nil
	})
}
