// Package gls fits per-pixel linear trends by generalized least squares
// with an AR(1) residual correlation structure.
//
// No Go library offers correlated-error linear models, so the fit is
// implemented as iterated feasible GLS: an OLS seed, a Yule-Walker
// estimate of the lag-1 residual autocorrelation, a Prais-Winsten
// transform of the design, and a refit, repeated until the correlation
// parameter stabilizes. Coefficient significance comes from a two-sided
// Student's t test on the transformed regression.
package gls

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"gridtrend/internal/errors"
)

const (
	// MinObservations is the smallest series the model can be fit on.
	// Below this there are no degrees of freedom for the t test.
	MinObservations = 3

	maxIterations = 50
	rhoTolerance  = 1e-8

	// Stationarity clamp on the AR(1) parameter
	rhoBound = 0.99
)

// Fit holds the estimates for one per-pixel regression
type Fit struct {
	Slope       float64 // trend in value units per second
	Intercept   float64
	SlopeStdErr float64
	TStat       float64
	PValue      float64 // two-sided, NaN when the test is degenerate
	Rho         float64 // estimated AR(1) correlation parameter
	NObs        int
	Iterations  int
	Converged   bool
}

// FitAR1 regresses values against times under an AR(1) residual structure.
// Missing observations (NaN in either vector) are excluded from the fit,
// not imputed. Returns an INSUFFICIENT_DATA error for series with fewer
// than MinObservations valid points and a SINGULAR_FIT error when no
// stable coefficient estimate exists; neither is ever a panic.
func FitAR1(times, values []float64) (Fit, error) {
	if len(times) != len(values) {
		return Fit{}, errors.MalformedInput("times and values length mismatch")
	}

	t := make([]float64, 0, len(times))
	y := make([]float64, 0, len(values))
	for i := range values {
		if math.IsNaN(values[i]) || math.IsNaN(times[i]) {
			continue
		}
		t = append(t, times[i])
		y = append(y, values[i])
	}

	n := len(y)
	if n < MinObservations {
		return Fit{}, errors.InsufficientData("fewer than 3 valid observations")
	}

	// Center the abscissa. Epoch seconds are ~1e9; centering keeps the
	// normal equations well conditioned without changing the slope.
	tMean := 0.0
	for _, v := range t {
		tMean += v
	}
	tMean /= float64(n)
	tc := make([]float64, n)
	timeVar := 0.0
	for i, v := range t {
		tc[i] = v - tMean
		timeVar += tc[i] * tc[i]
	}
	if timeVar == 0 {
		return Fit{}, errors.SingularFit("zero variance in time regressor")
	}

	// OLS seed
	intercept, slope, err := solveOLS(tc, y, 0)
	if err != nil {
		return Fit{}, err
	}

	rho := 0.0
	iterations := 0
	converged := false
	for iter := 0; iter < maxIterations; iter++ {
		iterations = iter + 1
		next := lag1Autocorr(tc, y, intercept, slope)
		next = math.Max(-rhoBound, math.Min(rhoBound, next))

		intercept, slope, err = solveOLS(tc, y, next)
		if err != nil {
			return Fit{}, err
		}

		if math.Abs(next-rho) < rhoTolerance {
			rho = next
			converged = true
			break
		}
		rho = next
	}

	se, err := slopeStdErr(tc, y, intercept, slope, rho)
	if err != nil {
		return Fit{}, err
	}
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(se) || math.IsInf(se, 0) {
		return Fit{}, errors.SingularFit("non-finite coefficient estimate")
	}

	fit := Fit{
		Slope:       slope,
		Intercept:   intercept - slope*tMean,
		SlopeStdErr: se,
		Rho:         rho,
		NObs:        n,
		Iterations:  iterations,
		Converged:   converged,
	}
	fit.TStat, fit.PValue = tTest(slope, se, n)
	return fit, nil
}

// solveOLS fits value ~ a + b*time on the Prais-Winsten transformed design
// for the given rho (rho 0 reduces to plain OLS). tc must be centered.
func solveOLS(tc, y []float64, rho float64) (intercept, slope float64, err error) {
	X, yv := transform(tc, y, rho)

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.VecDense
	if solveErr := qr.SolveVecTo(&beta, false, yv); solveErr != nil {
		return 0, 0, errors.SingularFit("normal equations are rank deficient")
	}
	return beta.AtVec(0), beta.AtVec(1), nil
}

// transform applies the Prais-Winsten transform: the first row is scaled
// by sqrt(1-rho^2), subsequent rows are quasi-differenced. All n rows are
// retained, so no degrees of freedom are lost to the transform.
func transform(tc, y []float64, rho float64) (*mat.Dense, *mat.VecDense) {
	n := len(y)
	X := mat.NewDense(n, 2, nil)
	yv := mat.NewVecDense(n, nil)

	head := math.Sqrt(1 - rho*rho)
	X.Set(0, 0, head)
	X.Set(0, 1, head*tc[0])
	yv.SetVec(0, head*y[0])
	for i := 1; i < n; i++ {
		X.Set(i, 0, 1-rho)
		X.Set(i, 1, tc[i]-rho*tc[i-1])
		yv.SetVec(i, y[i]-rho*y[i-1])
	}
	return X, yv
}

// lag1Autocorr estimates the AR(1) parameter from the regression residuals
// on the original (untransformed) scale. This is the Yule-Walker estimate
// for an AR(1) process: the lag-1 autocovariance over the variance.
func lag1Autocorr(tc, y []float64, intercept, slope float64) float64 {
	n := len(y)
	resid := make([]float64, n)
	for i := range y {
		resid[i] = y[i] - intercept - slope*tc[i]
	}

	var num, den float64
	for i := 0; i < n; i++ {
		den += resid[i] * resid[i]
		if i > 0 {
			num += resid[i] * resid[i-1]
		}
	}
	if den == 0 {
		// Degenerate (perfectly fit or constant) series carry no
		// correlation information.
		return 0
	}
	return num / den
}

// slopeStdErr computes the standard error of the slope from the final
// transformed regression: s^2 * (X'X)^-1 with s^2 = RSS/(n-2).
func slopeStdErr(tc, y []float64, intercept, slope, rho float64) (float64, error) {
	n := len(y)
	X, yv := transform(tc, y, rho)

	var fittedVec mat.VecDense
	beta := mat.NewVecDense(2, []float64{intercept, slope})
	fittedVec.MulVec(X, beta)

	rss := 0.0
	for i := 0; i < n; i++ {
		r := yv.AtVec(i) - fittedVec.AtVec(i)
		rss += r * r
	}
	s2 := rss / float64(n-2)

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return 0, errors.SingularFit("covariance matrix is singular")
	}
	return math.Sqrt(s2 * inv.At(1, 1)), nil
}

// tTest returns the t statistic and two-sided p-value for the slope with
// n-2 degrees of freedom. A zero standard error means a perfect fit: a
// nonzero slope is then significant at any level (p = 0), while a zero
// slope (constant series) leaves the test undefined.
func tTest(slope, se float64, n int) (tStat, pValue float64) {
	if se == 0 {
		if slope == 0 {
			return math.NaN(), math.NaN()
		}
		return math.Inf(sign(slope)), 0
	}
	tStat = slope / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	pValue = 2 * dist.CDF(-math.Abs(tStat))
	return tStat, pValue
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
