package fsm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motionlab/internal/fsm"
)

var _ = Describe("Machine", func() {
	var (
		executed []fsm.Action
		m        *fsm.Machine
	)

	BeforeEach(func() {
		executed = nil
		exec := fsm.ExecutorFunc(func(a fsm.Action) { executed = append(executed, a) })
		m = fsm.New("closed").
			On("closed", "open", "opening").
			OnGuarded("opening", "done", "open", func() bool { return len(executed) > 0 }).
			On("open", "close", "closed").
			OnEnter("opening", fsm.StartTimeline("drawer")).
			OnExit("open", fsm.SetTarget("drawer", 0)).
			Executor(exec).
			Build()
	})

	It("starts in the initial state", func() {
		Expect(m.Current()).To(Equal(fsm.StateID("closed")))
		Expect(m.History()).To(BeEmpty())
	})

	It("dispatches entry actions to the executor", func() {
		Expect(m.Send("open")).To(Equal(fsm.StateID("opening")))
		Expect(executed).To(ConsistOf(fsm.StartTimeline("drawer")))
	})

	It("lets a passing guard through", func() {
		m.Send("open")
		Expect(m.CanSend("done")).To(BeTrue())
		Expect(m.Send("done")).To(Equal(fsm.StateID("open")))
	})

	It("runs exit actions when leaving", func() {
		m.Send("open")
		m.Send("done")
		m.Send("close")
		Expect(executed).To(HaveLen(2))
		Expect(executed[1].Kind).To(Equal(fsm.ActSetTarget))
		Expect(m.History()).To(HaveLen(3))
	})

	Context("when no transition matches", func() {
		It("leaves state, history and executor untouched", func() {
			Expect(m.Send("close")).To(Equal(fsm.StateID("closed")))
			Expect(m.History()).To(BeEmpty())
			Expect(executed).To(BeEmpty())
		})
	})

	Context("dry runs", func() {
		It("never fire", func() {
			Expect(m.CanSend("open")).To(BeTrue())
			Expect(m.CanSend("done")).To(BeFalse())
			Expect(m.Current()).To(Equal(fsm.StateID("closed")))
			Expect(executed).To(BeEmpty())
		})
	})
})

var _ = Describe("Runtime", func() {
	It("keeps machines independent and forgets removed ones", func() {
		rt := fsm.NewRuntime()
		build := func() *fsm.Machine {
			return fsm.New("off").On("off", "toggle", "on").On("on", "toggle", "off").Build()
		}
		a := rt.Create(build())
		b := rt.Create(build())

		state, ok := rt.Send(a, "toggle")
		Expect(ok).To(BeTrue())
		Expect(state).To(Equal(fsm.StateID("on")))
		other, _ := rt.Current(b)
		Expect(other).To(Equal(fsm.StateID("off")))

		Expect(rt.Remove(b)).To(BeTrue())
		_, ok = rt.Send(b, "toggle")
		Expect(ok).To(BeFalse())
		Expect(rt.Len()).To(Equal(1))
	})
})
