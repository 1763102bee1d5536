package quantity

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/buckingham/internal/rational"
	"github.com/san-kum/buckingham/internal/units"
)

var _ = Describe("New", func() {
	It("stores values in canonical base units", func() {
		q := MustNew(2, 0.5, "kilometer")
		Expect(q.Value()).To(Equal(2000.0))
		Expect(q.Uncertainty()).To(Equal(500.0))
		Expect(q.Units()).To(Equal("meter"))
	})

	It("strips whitespace from the unit expression", func() {
		q, err := New(1, 0, " meter / second ")
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Units()).To(Equal("meter*second^-1"))
	})

	It("rejects malformed expressions", func() {
		_, err := New(1, 0, "meter//second")
		Expect(err).To(MatchError(units.ErrSyntax))
	})

	It("rejects unknown units", func() {
		_, err := New(1, 0, "kiloN")
		Expect(err).To(MatchError(units.ErrUnknownUnits))
	})

	It("accepts raw dimension vectors", func() {
		q := FromDims(3, 0, units.DimsOf(1, -2, 0, 0, 0, 0))
		Expect(q.Units()).To(Equal("meter*second^-2"))
		Expect(q.Value()).To(Equal(3.0))
	})
})

var _ = Describe("Addition and subtraction", func() {
	It("combines independent errors in quadrature", func() {
		a := MustNew(2, 1, "N")
		b := MustNew(3, 2, "N")

		sum, err := a.Add(b)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Value()).To(Equal(5.0))
		Expect(sum.Uncertainty()).To(BeNumerically("~", math.Sqrt(5), 1e-12))
		Expect(sum.String()).To(Equal("5.00 ± 2.24"))

		diff, err := a.Sub(b)
		Expect(err).NotTo(HaveOccurred())
		Expect(diff.String()).To(Equal("-1.00 ± 2.24"))
	})

	It("fails on incompatible dimensions", func() {
		_, err := MustNew(1, 0, "meter").Add(MustNew(1, 0, "second"))
		Expect(err).To(MatchError(ErrIncompatibleDimensions))

		_, err = MustNew(10, 0, "meter/second").Add(MustNew(2, 0, "yard^3"))
		Expect(err).To(MatchError(ErrIncompatibleDimensions))

		var de *DimensionError
		Expect(err).To(BeAssignableToTypeOf(de))

		_, err = MustNew(1, 0, "meter").Sub(MustNew(1, 0, "gram"))
		Expect(err).To(MatchError(ErrIncompatibleDimensions))
	})

	It("treats a quantity added to itself as fully correlated", func() {
		a := MustNew(3, 1, "meter")
		sum, err := a.Add(a)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Value()).To(Equal(6.0))
		Expect(sum.Uncertainty()).To(Equal(2.0))

		diff, err := a.Sub(a)
		Expect(err).NotTo(HaveOccurred())
		Expect(diff.Value()).To(Equal(0.0))
		Expect(diff.Uncertainty()).To(Equal(0.0))
	})

	It("treats equal but separately built quantities as independent", func() {
		a := MustNew(3, 1, "meter")
		b := MustNew(3, 1, "meter")
		Expect(a.SameOrigin(b)).To(BeFalse())

		sum, err := a.Add(b)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Uncertainty()).To(BeNumerically("~", math.Sqrt2, 1e-12))
	})

	It("coerces scalars into the receiver's dimensions", func() {
		a := MustNew(3, 1, "meter")
		Expect(a.AddScalar(2).Value()).To(Equal(5.0))
		Expect(a.AddScalar(2).Units()).To(Equal("meter"))
		Expect(a.SubScalar(2).Value()).To(Equal(1.0))

		r := a.ScalarSub(10)
		Expect(r.Value()).To(Equal(7.0))
		Expect(r.Uncertainty()).To(Equal(1.0))
	})

	It("adds an error with Pm", func() {
		x, err := Scalar(4).Add(Pm(0.5))
		Expect(err).NotTo(HaveOccurred())
		Expect(x.Value()).To(Equal(4.0))
		Expect(x.Uncertainty()).To(Equal(0.5))
		Expect(x.IsPure()).To(BeTrue())
	})
})

var _ = Describe("Multiplication and division", func() {
	It("propagates independent errors", func() {
		c := MustNew(4, 2, "N").Mul(MustNew(7, 3, "N"))
		Expect(c.Value()).To(Equal(28.0))
		Expect(c.Uncertainty()).To(BeNumerically("~", math.Sqrt(340), 1e-12))
		Expect(c.Uncertainty()).To(BeNumerically("~", 18.4391, 1e-4))
		Expect(c.String()).To(Equal("(2.80 ± 1.84)x10"))

		d := MustNew(4, 2, "N").Div(MustNew(7, 3, "N"))
		Expect(d.String()).To(Equal("(5.71 ± 3.76)/10"))
	})

	It("handles scalar operands", func() {
		a := MustNew(2, 1, "N")
		Expect(a.MulScalar(1).String()).To(Equal("2.00 ± 1.00"))
		Expect(a.DivScalar(1).String()).To(Equal("2.00 ± 1.00"))
		Expect(a.ScalarDiv(1).String()).To(Equal("(5.00 ± 2.50)/10"))
	})

	It("sums and subtracts dimension vectors", func() {
		pairs := [][2]string{
			{"meter", "second"},
			{"kilogram*meter^2/second^3", "ampere"},
			{"newton", "meter^1/2"},
			{"dollar/day", "year"},
			{"volt", "ohm"},
		}
		for _, p := range pairs {
			a := MustNew(3, 0.1, p[0])
			b := MustNew(2, 0.2, p[1])
			Expect(a.Mul(b).Dims().Equal(a.Dims().Add(b.Dims()))).To(BeTrue(), p[0]+"*"+p[1])
			Expect(a.Div(b).Dims().Equal(a.Dims().Sub(b.Dims()))).To(BeTrue(), p[0]+"/"+p[1])
		}
	})

	It("uses the correlated formulas for self products", func() {
		a := MustNew(3, 1, "meter")
		sq := a.Mul(a)
		Expect(sq.Value()).To(Equal(9.0))
		Expect(sq.Uncertainty()).To(Equal(6.0))
		Expect(sq.Units()).To(Equal("meter^2"))

		one := a.Div(a)
		Expect(one.Value()).To(Equal(1.0))
		Expect(one.Uncertainty()).To(Equal(0.0))
		Expect(one.IsPure()).To(BeTrue())
	})

	It("gives results a fresh origin", func() {
		a := MustNew(3, 1, "meter")
		b := a.MulScalar(1)
		Expect(a.SameOrigin(b)).To(BeFalse())
		Expect(Quantity{}.SameOrigin(Quantity{})).To(BeFalse())
	})
})

var _ = Describe("Pow", func() {
	It("scales dimensions by the exponent", func() {
		q, err := MustNew(2, 0.1, "meter").PowScalar(2)
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Value()).To(Equal(4.0))
		Expect(q.Uncertainty()).To(BeNumerically("~", 0.4, 1e-12))
		Expect(q.Units()).To(Equal("meter^2"))
	})

	It("keeps fractional exponents exact", func() {
		q, err := MustNew(4, 0, "meter").PowScalar(0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Value()).To(Equal(2.0))
		Expect(q.Dims()[units.Length]).To(Equal(rational.New(1, 2)))

		r := MustNew(9, 0, "meter^2/second^2").Sqrt()
		Expect(r.Value()).To(BeNumerically("~", 3.0, 1e-12))
		Expect(r.Units()).To(Equal("meter*second^-1"))
	})

	It("rejects dimensioned exponents", func() {
		_, err := MustNew(2, 0, "meter").Pow(MustNew(2, 0, "second"))
		Expect(err).To(MatchError(ErrIncompatibleDimensions))
	})

	It("rejects exponents without a small rational form on dimensioned bases", func() {
		_, err := MustNew(2, 0, "meter").PowScalar(math.Pi)
		Expect(err).To(MatchError(ErrIrrationalExponent))

		q, err := Scalar(2).PowScalar(math.Pi)
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Value()).To(Equal(math.Pow(2, math.Pi)))
	})

	It("propagates the exponent's error", func() {
		b, _ := Scalar(2).Add(Pm(0.1))
		q, err := Scalar(3).Pow(b)
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Value()).To(Equal(9.0))
		Expect(q.Uncertainty()).To(BeNumerically("~", 9*0.1*math.Log(3), 1e-12))
	})

	It("refuses the log term for non-positive bases", func() {
		b, _ := Scalar(2).Add(Pm(0.1))
		_, err := Scalar(-3).Pow(b)
		Expect(err).To(MatchError(ErrDomain))
	})

	It("uses the correlated formula for self exponentiation", func() {
		a, _ := Scalar(2).Add(Pm(0.1))
		q, err := a.Pow(a)
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Value()).To(Equal(4.0))
		Expect(q.Uncertainty()).To(BeNumerically("~", 4*(0.1*1+0.1*math.Log(2)), 1e-12))
	})
})

var _ = Describe("Convert", func() {
	It("converts between compatible units", func() {
		a := MustNew(10, 0, "meter/second")
		b := MustNew(2, 0, "yard/minute")
		c, err := a.Add(b)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Value()).To(BeNumerically("~", 10.03048, 1e-12))
		Expect(c.Units()).To(Equal("meter*second^-1"))

		kmh, err := c.Convert("kilometer/hour")
		Expect(err).NotTo(HaveOccurred())
		Expect(kmh.Value()).To(BeNumerically("~", 36.109728, 1e-9))
		Expect(kmh.Uncertainty()).To(Equal(0.0))
		Expect(kmh.String()).To(Equal("(36.109728 ± 0)"))
	})

	It("converts energy to electron volts", func() {
		ev, err := MustNew(1, 0, "joule").Convert("eV")
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Value()).To(BeNumerically("~", 6.2415096471204178e+18, 1e4))
	})

	It("mixes volumes and densities", func() {
		a := MustNew(1, 0, "decimeter^3")
		b := MustNew(2, 0, "liter")
		c := MustNew(5, 0, "gram/centimeter^3")
		sum, err := a.Add(b)
		Expect(err).NotTo(HaveOccurred())
		kg, err := sum.Mul(c).Convert("kilogram")
		Expect(err).NotTo(HaveOccurred())
		Expect(kg.String()).To(Equal("(15.000000 ± 0)"))
	})

	It("formats propagated errors after conversion", func() {
		a := MustNew(10, 2, "meter/second")
		b := MustNew(5, 1, "hour")
		c := a.Mul(b)

		km, err := c.Convert("kilometer")
		Expect(err).NotTo(HaveOccurred())
		Expect(km.String()).To(Equal("(1.800 ± 0.509)x10^2"))
		Expect(km.Value()).To(BeNumerically("~", 180.0, 1e-9))
		Expect(km.Uncertainty()).To(BeNumerically("~", 50.9116882454, 1e-9))

		ly, err := c.Convert("lightyear")
		Expect(err).NotTo(HaveOccurred())
		Expect(ly.String()).To(Equal("(1.903 ± 0.538)/10^11"))

		a4, err := a.PowScalar(4)
		Expect(err).NotTo(HaveOccurred())
		d := a4.Div(b.MulScalar(7))
		Expect(d.String()).To(Equal("(7.94 ± 6.54)/10^2"))
		Expect(d.Units()).To(Equal("meter^4*second^-5"))
	})

	It("handles a zero value", func() {
		z, err := MustNew(0, 0, "meter/second").Convert("kilometer/hour")
		Expect(err).NotTo(HaveOccurred())
		Expect(z.String()).To(Equal("(0.000000 ± 0)"))
	})

	It("prices a coupon over a year", func() {
		coupon := MustNew(200, 1, "dollar/day")
		expiration := MustNew(1, 0, "year")
		payoff, err := coupon.Mul(expiration).Convert("dollar")
		Expect(err).NotTo(HaveOccurred())
		Expect(payoff.String()).To(Equal("(7.3048 ± 0.0365)x10^4"))
		Expect(payoff.AsLatex(2)).To(Equal(`(7.3048 \pm 0.0365)\times 10^{4}`))
	})

	It("fails on incompatible targets", func() {
		_, err := MustNew(1, 0, "meter").Convert("second")
		Expect(err).To(MatchError(ErrIncompatibleDimensions))

		_, err = MustNew(1, 0, "meter").Convert("parsec")
		Expect(err).To(MatchError(units.ErrUnknownUnits))
	})

	It("round-trips every registered unit", func() {
		reg := units.Default()
		for _, name := range reg.Names() {
			q, err := MustNew(1, 0, name).Convert(name)
			Expect(err).NotTo(HaveOccurred(), name)
			Expect(q.Value()).To(BeNumerically("~", 1.0, 1e-12), name)
		}
	})
})

var _ = Describe("Purity", func() {
	It("detects pure numbers", func() {
		Expect(Scalar(3).IsPure()).To(BeTrue())
		Expect(MustNew(1, 0, "meter/meter").IsPure()).To(BeTrue())
		Expect(MustNew(1, 0, "meter").IsPure()).To(BeFalse())
		Expect(Scalar(3).Units()).To(Equal("none"))
	})

	It("purifies only when allowed", func() {
		_, err := MustNew(1, 0, "meter").Purify(false)
		Expect(err).To(MatchError(ErrNotPure))

		p, err := MustNew(2, 0.5, "meter").Purify(true)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.IsPure()).To(BeTrue())
		Expect(p.Value()).To(Equal(2.0))
		Expect(p.Uncertainty()).To(Equal(0.5))

		_, err = Scalar(1).Purify(false)
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("Transcendental functions", func() {
	funcs := map[string]func(Quantity) (Quantity, error){
		"sin": Sin, "cos": Cos, "exp": Exp, "log": Log,
	}
	std := map[string]func(float64) float64{
		"sin": math.Sin, "cos": math.Cos, "exp": math.Exp, "log": math.Log,
	}

	It("fails on dimensioned quantities", func() {
		for name, fn := range funcs {
			_, err := fn(MustNew(1, 0, "meter"))
			Expect(err).To(MatchError(ErrIncompatibleDimensions), name)
		}
	})

	It("matches the math package on pure numbers", func() {
		for name, fn := range funcs {
			for _, x := range []float64{0.1, 0.5, 1, 2.5} {
				q, err := fn(Scalar(x))
				Expect(err).NotTo(HaveOccurred(), name)
				Expect(q.Value()).To(Equal(std[name](x)), name)
				Expect(q.IsPure()).To(BeTrue())
			}
		}
	})

	It("propagates the local derivative", func() {
		x, _ := Scalar(0.5).Add(Pm(0.1))

		s, _ := Sin(x)
		Expect(s.Uncertainty()).To(BeNumerically("~", math.Abs(math.Cos(0.5))*0.1, 1e-15))
		c, _ := Cos(x)
		Expect(c.Uncertainty()).To(BeNumerically("~", math.Abs(math.Sin(0.5))*0.1, 1e-15))
		e, _ := Exp(x)
		Expect(e.Uncertainty()).To(BeNumerically("~", math.Exp(0.5)*0.1, 1e-15))
		l, _ := Log(x)
		Expect(l.Uncertainty()).To(BeNumerically("~", 0.2, 1e-15))
	})

	It("rejects logarithms of non-positive values", func() {
		_, err := Log(Scalar(0))
		Expect(err).To(MatchError(ErrDomain))
	})
})

var _ = Describe("AllUnits", func() {
	It("supports the simplified syntax", func() {
		u := AllUnits()
		Expect(u).To(HaveLen(units.Default().Len()))

		meter, second := u["meter"], u["second"]
		x, err := Scalar(4).Add(Pm(0.5))
		Expect(err).NotTo(HaveOccurred())
		length := x.Mul(meter)
		velocity := meter.MulScalar(5).Div(second)
		time := length.Div(velocity)
		Expect(time.String()).To(Equal("(8.00 ± 1.00)/10"))
		Expect(time.Units()).To(Equal("second"))
	})

	It("builds unit quantities of magnitude one in their own units", func() {
		km := AllUnits()["kilometer"]
		Expect(km.Value()).To(Equal(1000.0))
		v, err := km.Convert("kilometer")
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Value()).To(Equal(1.0))
	})
})
