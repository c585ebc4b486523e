package utils

import (
	"context"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestGroupWorkParallel(t *testing.T) {
	cases := []struct {
		name       string
		totalSize  int
		numWorkers int
	}{
		{"more work than workers", 100, 4},
		{"uneven split", 17, 4},
		{"fewer work items than workers", 3, 8},
		{"single worker", 25, 1},
		{"default worker count", 50, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var total int64
			seen := make([]int32, c.totalSize)
			err := GroupWorkParallel(
				context.Background(),
				c.totalSize,
				c.numWorkers,
				func(numGroups int) {
					test.That(t, numGroups, test.ShouldBeLessThanOrEqualTo, MaxInt(c.totalSize, 1))
				},
				func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
					test.That(t, to-from, test.ShouldEqual, groupSize)
					return func(memberNum, workNum int) {
						atomic.AddInt32(&seen[workNum], 1)
						atomic.AddInt64(&total, int64(workNum))
					}, nil
				},
			)
			test.That(t, err, test.ShouldBeNil)

			// Every index was worked exactly once.
			for i := range seen {
				test.That(t, seen[i], test.ShouldEqual, int32(1))
			}
			test.That(t, total, test.ShouldEqual, int64(c.totalSize*(c.totalSize-1)/2))
		})
	}
}

func TestGroupWorkParallelEmpty(t *testing.T) {
	called := false
	var groupWorkCalls int32
	err := GroupWorkParallel(
		context.Background(),
		0,
		4,
		func(numGroups int) {
			called = true
			test.That(t, numGroups, test.ShouldEqual, 0)
		},
		func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
			atomic.AddInt32(&groupWorkCalls, 1)
			return nil, nil
		},
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, called, test.ShouldBeTrue)
	test.That(t, groupWorkCalls, test.ShouldEqual, int32(0))
}

func TestGroupWorkParallelDone(t *testing.T) {
	var doneCount int32
	err := GroupWorkParallel(
		context.Background(),
		10,
		2,
		func(numGroups int) {},
		func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {}, func() {
				atomic.AddInt32(&doneCount, 1)
			}
		},
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, doneCount, test.ShouldEqual, int32(2))
}
