/**
 * Licensed to the Apache Software Foundation (ASF) under one
 * or more contributor license agreements.  See the NOTICE file
 * distributed with this work for additional information
 * regarding copyright ownership.  The ASF licenses this file
 * to you under the Apache License, Version 2.0 (the
 * "License"); you may not use this file except in compliance
 * with the License.  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package task

import (
	"context"
	"fmt"
	"sync"
)

type job struct {
	fn func() error
	ch chan error
}

// Runs jobs one at a time in submission order.  A session pushes every
// command through its queue so that the write and the optimistic state
// update of one command never interleave with another's.
type TaskQueue struct {
	name   string
	jobCh  chan job
	stopCh chan struct{}
	active bool
	mtx    sync.Mutex
	wg     sync.WaitGroup
}

func NewTaskQueue(name string) *TaskQueue {
	return &TaskQueue{
		name: name,
	}
}

var InactiveError = fmt.Errorf("inactive task queue")

// Queues fn.  Its result, or the reason it never ran, arrives on the
// returned channel.
func (q *TaskQueue) Enqueue(fn func() error) <-chan error {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	j := job{
		fn: fn,
		ch: make(chan error, 1),
	}

	if !q.active {
		j.ch <- InactiveError
		close(j.ch)
		return j.ch
	}

	select {
	case q.jobCh <- j:
	default:
		j.ch <- fmt.Errorf("task queue \"%s\" full", q.name)
		close(j.ch)
	}

	return j.ch
}

// Queues fn and waits for it to finish.  If ctx expires first, fn still
// runs but its result is discarded.
func (q *TaskQueue) Run(ctx context.Context, fn func() error) error {
	select {
	case err := <-q.Enqueue(fn):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *TaskQueue) Start(depth int) error {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if q.active {
		return fmt.Errorf("task queue \"%s\" started twice", q.name)
	}
	q.active = true

	jobCh := make(chan job, depth)
	stopCh := make(chan struct{})
	q.jobCh = jobCh
	q.stopCh = stopCh

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()

		for {
			// Stopping takes precedence over queued jobs.
			select {
			case <-stopCh:
				return
			default:
			}

			select {
			case j := <-jobCh:
				j.ch <- j.fn()
				close(j.ch)

			case <-stopCh:
				return
			}
		}
	}()

	return nil
}

// Stops the queue and fails every job that has not started with cause.
// Blocks until the running job, if any, returns; a job must not stop its
// own queue.
func (q *TaskQueue) Stop(cause error) error {
	q.mtx.Lock()

	if !q.active {
		q.mtx.Unlock()
		return fmt.Errorf("task queue \"%s\" stopped twice", q.name)
	}
	q.active = false
	close(q.stopCh)

	q.mtx.Unlock()

	q.wg.Wait()

	for {
		select {
		case j := <-q.jobCh:
			j.ch <- cause
			close(j.ch)
		default:
			return nil
		}
	}
}

func (q *TaskQueue) Active() bool {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	return q.active
}
