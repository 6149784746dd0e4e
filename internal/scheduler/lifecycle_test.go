package scheduler_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gridfx/internal/scheduler"
)

var _ = Describe("Scheduler lifecycle", func() {
	var (
		clock    *scheduler.MockTimeProvider
		sched    *scheduler.Scheduler
		steps    int
		detached int
	)

	BeforeEach(func() {
		clock = scheduler.NewMockTimeProvider(time.Unix(0, 0))
		steps, detached = 0, 0
		sched = scheduler.New(func(float64) { steps++ }, scheduler.IntervalForFPS(24))
	})

	tick := func(n int, every time.Duration) {
		for range n {
			sched.Tick(clock.Advance(every))
		}
	}

	It("starts idle and ignores the clock", func() {
		Expect(sched.State()).To(Equal(scheduler.Idle))
		tick(50, 10*time.Millisecond)
		Expect(steps).To(BeZero())
	})

	Context("when mounted", func() {
		BeforeEach(func() {
			Expect(sched.Mount(func() { detached++ })).To(BeTrue())
		})

		It("observes without stepping until visible", func() {
			Expect(sched.State()).To(Equal(scheduler.Observing))
			tick(50, 10*time.Millisecond)
			Expect(steps).To(BeZero())
		})

		It("runs while visible and freezes while hidden", func() {
			sched.SetVisible(true)
			Expect(sched.State()).To(Equal(scheduler.Running))
			tick(24, 42*time.Millisecond)
			Expect(steps).To(Equal(24))

			sched.SetVisible(false)
			frozen := steps
			tick(24, 42*time.Millisecond)
			Expect(steps).To(Equal(frozen))
			Expect(sched.State()).To(Equal(scheduler.Observing))
		})

		DescribeTable("visibility events are idempotent",
			func(events []bool, want scheduler.State) {
				for _, v := range events {
					sched.SetVisible(v)
				}
				Expect(sched.State()).To(Equal(want))
			},
			Entry("visible twice", []bool{true, true}, scheduler.Running),
			Entry("hidden twice", []bool{false, false}, scheduler.Observing),
			Entry("flapping ends visible", []bool{true, false, true}, scheduler.Running),
			Entry("flapping ends hidden", []bool{true, false, false}, scheduler.Observing),
		)

		Context("and stopped", func() {
			BeforeEach(func() {
				sched.SetVisible(true)
				sched.Stop()
			})

			It("detaches watchers exactly once", func() {
				sched.Stop()
				Expect(detached).To(Equal(1))
			})

			It("never resumes", func() {
				sched.SetVisible(true)
				Expect(sched.Mount()).To(BeFalse())
				tick(10, time.Second)
				Expect(steps).To(BeZero())
				Expect(sched.State()).To(Equal(scheduler.Stopped))
			})
		})
	})
})
