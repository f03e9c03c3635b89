package event_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/magphyx/internal/dynamo"
	"github.com/san-kum/magphyx/internal/event"
	"github.com/san-kum/magphyx/internal/physics"
)

var errSink = errors.New("sink full")

type failingSink struct{}

func (failingSink) Write(event.Record) error { return errSink }

func coords(r, theta, phi, pr, ptheta, pphi float64) dynamo.Coords {
	return dynamo.Coords{r, theta, phi, pr, ptheta, pphi}
}

var _ = Describe("crossing rules", func() {
	DescribeTable("Sign",
		func(x float64, want int) {
			Expect(event.Sign(x)).To(Equal(want))
		},
		Entry("positive", 0.5, 1),
		Entry("negative", -0.5, -1),
		Entry("zero", 0.0, 0),
		Entry("inside epsilon", 5e-13, 0),
		Entry("inside negative epsilon", -5e-13, 0),
		Entry("just outside epsilon", 2e-12, 1),
	)

	DescribeTable("IsZeroCrossing",
		func(a, b float64, want bool) {
			Expect(event.IsZeroCrossing(a, b)).To(Equal(want))
		},
		Entry("positive to negative", 1.0, -1.0, true),
		Entry("negative to positive", -1.0, 1.0, true),
		Entry("positive to zero", 1.0, 0.0, true),
		Entry("negative to zero", -1.0, 0.0, true),
		Entry("stays positive", 1.0, 2.0, false),
		Entry("stays negative", -1.0, -0.1, false),
		Entry("leaves zero upward", 0.0, 1.0, false),
		Entry("leaves zero downward", 0.0, -1.0, false),
		Entry("zero to zero", 0.0, 0.0, false),
	)

	DescribeTable("IsNegativeZeroCrossing",
		func(a, b float64, want bool) {
			Expect(event.IsNegativeZeroCrossing(a, b)).To(Equal(want))
		},
		Entry("positive to negative", 1.0, -1.0, true),
		Entry("positive to zero", 1.0, 0.0, true),
		Entry("negative to positive", -1.0, 1.0, false),
		Entry("zero to negative", 0.0, -1.0, false),
		Entry("stays positive", 2.0, 1.0, false),
	)

	It("treats an angle flipping sign at pi as a crossing", func() {
		Expect(event.Phi.Crossed(3.1, -3.1)).To(BeTrue())
		Expect(event.Theta.Crossed(-3.1, 3.1)).To(BeTrue())
		Expect(event.Beta.Crossed(3.1, -3.1)).To(BeTrue())
		Expect(event.Phi.Crossed(0.1, -0.1)).To(BeTrue())
		Expect(event.Phi.Crossed(3.1, 3.0)).To(BeFalse())
	})

	It("names events after the signal", func() {
		Expect(event.Theta.EventName()).To(Equal("theta = 0"))
		Expect(event.Pphi.EventName()).To(Equal("pphi = 0"))
		Expect(event.Signals).To(HaveLen(6))
	})
})

var _ = Describe("Interpolate", func() {
	It("pins a native coordinate to exactly zero", func() {
		a := physics.NewDipole(2, 0.1, 0.3, 0.5, 0.2, 0.1)
		b := a.WithCoords(coords(2.2, -0.3, 0.3, 0.5, 0.2, 0.1))

		at := event.Interpolate(a, b, event.Theta)
		Expect(at.Theta()).To(Equal(0.0))
		Expect(at.R()).To(BeNumerically("~", 2.05, 1e-12))
		Expect(at.Reference()).To(Equal(a.Reference()))
		Expect(at.E()).To(Equal(physics.Energy(at.Coords())))
	})

	It("lands a derived signal on zero", func() {
		a := physics.NewDipole(2, 0.5, 0.7, 0.5, 0.2, 0.1)
		b := a.WithCoords(coords(2, 0.5, 0.4, 0.5, 0.2, 0.1))

		at := event.Interpolate(a, b, event.Beta)
		Expect(physics.Beta(at)).To(BeNumerically("~", 0, 1e-12))
		Expect(at.Phi()).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("interpolates angles the short way round", func() {
		a := physics.NewDipole(2, 0.1, 3.0, 0.5, 0.2, 0.1)
		b := a.WithCoords(coords(2, 0.1, -3.1, -0.5, 0.2, 0.1))

		at := event.Interpolate(a, b, event.Pr)
		Expect(at.Pr()).To(Equal(0.0))
		Expect(at.Phi()).To(BeNumerically("~", 3.0+(2*math.Pi-6.1)/2, 1e-9))
	})
})

var _ = Describe("Detector", func() {
	var (
		sink    *event.Collector
		initial physics.Dipole
		det     *event.Detector
	)

	BeforeEach(func() {
		sink = &event.Collector{}
		initial = physics.NewDipole(2, 0.1, 0.3, 0.5, 0.2, 0.1)
		det = event.NewDetector(sink, initial, nil)
	})

	It("writes nothing when no signal crosses", func() {
		next := initial.WithCoords(coords(2.1, 0.2, 0.4, 0.4, 0.2, 0.1))
		fired, err := det.Log(next, 0.01)
		Expect(err).NotTo(HaveOccurred())
		Expect(fired).To(BeFalse())
		Expect(sink.Records).To(BeEmpty())

		fired, err = det.Log(next.WithTheta(-0.1), 0.02)
		Expect(err).NotTo(HaveOccurred())
		Expect(fired).To(BeTrue(), "next was retained as the previous state")
	})

	It("writes one record per crossing in signal order", func() {
		next := initial.WithCoords(coords(2, -0.1, 0.3, -0.5, 0.2, 0.1))
		fired, err := det.Log(next, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(fired).To(BeTrue())

		Expect(sink.Records).To(HaveLen(2))
		Expect(sink.Records[0].N).To(Equal(1))
		Expect(sink.Records[0].Name).To(Equal("theta = 0"))
		Expect(sink.Records[0].State.Theta()).To(Equal(0.0))
		Expect(sink.Records[0].T).To(Equal(1.0))
		Expect(sink.Records[1].N).To(Equal(2))
		Expect(sink.Records[1].Name).To(Equal("pr = 0"))
		Expect(sink.Records[1].State.Pr()).To(Equal(0.0))
		Expect(sink.Records[1].T).To(Equal(1.0))
		Expect(det.RecordCount()).To(Equal(2))
	})

	It("only logs radial momentum going negative", func() {
		start := physics.NewDipole(2, 0.1, 0.3, -0.5, 0.2, 0.1)
		det = event.NewDetector(sink, start, nil)
		fired, err := det.Log(start.WithPr(0.5), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(fired).To(BeFalse())
	})

	It("does not log a signal leaving zero", func() {
		start := physics.NewDipole(2, 0, 0.3, 0.5, 0.2, 0.1)
		det = event.NewDetector(sink, start, nil)
		fired, err := det.Log(start.WithTheta(-0.1), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(fired).To(BeFalse())
	})

	It("logs theta wrapping through pi at the step end time", func() {
		start := physics.NewDipole(2, 3.1, 0.3, 0.5, 0.2, 0.1)
		det = event.NewDetector(sink, start, nil)
		fired, err := det.Log(start.WithTheta(-3.1), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(fired).To(BeTrue())

		var names []string
		for _, r := range sink.Records {
			names = append(names, r.Name)
			Expect(r.T).To(Equal(1.0))
		}
		Expect(names).To(ContainElement("theta = 0"))
		Expect(sink.Records[0].State.Theta()).To(Equal(0.0))
	})

	It("writes collisions unconditionally", func() {
		hit := initial.WithCoords(coords(1, 0.1, 0.3, -0.5, 0.2, 0.1))
		Expect(det.LogCollision(hit, 3.25)).To(Succeed())
		Expect(det.RecordCount()).To(Equal(1))
		rec := sink.Records[0]
		Expect(rec.Name).To(Equal(event.CollisionName))
		Expect(rec.T).To(Equal(3.25))
		Expect(rec.State).To(Equal(hit))
		Expect(rec.Beta).To(Equal(physics.Beta(hit)))

		fired, err := det.Log(hit.WithTheta(-0.1), 3.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(fired).To(BeTrue(), "hit was retained as the previous state")
	})

	It("numbers records continuously across calls", func() {
		Expect(det.LogCollision(initial, 0)).To(Succeed())
		_, err := det.Log(initial.WithTheta(-0.1), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(det.LogCollision(initial, 2)).To(Succeed())

		var ns []int
		for _, r := range sink.Records {
			ns = append(ns, r.N)
		}
		Expect(ns).To(Equal([]int{1, 2, 3}))
	})

	It("propagates sink failures without counting them", func() {
		det = event.NewDetector(failingSink{}, initial, nil)
		_, err := det.Log(initial.WithTheta(-0.1), 1)
		Expect(err).To(MatchError(errSink))
		Expect(det.RecordCount()).To(Equal(0))
	})
})
