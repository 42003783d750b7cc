package carstan

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"
)

// slidingWindowProp proposes a new value uniformly in a window around theta,
// reflecting off both support bounds so the proposal stays symmetric
func slidingWindowProp(theta, wsize, lo, hi float64, rng *rand.Rand) (thetaStar float64) {
	u := rng.Float64()
	thetaStar = theta - (wsize / 2.) + (wsize * u)
	for thetaStar < lo || thetaStar > hi {
		if thetaStar < lo {
			thetaStar = 2*lo - thetaStar
		}
		if thetaStar > hi {
			thetaStar = 2*hi - thetaStar
		}
	}
	return
}

// multiplierProp scales theta by exp((u-0.5)*epsilon); the returned proposal
// ratio is the multiplier itself
func multiplierProp(theta, epsilon float64, rng *rand.Rand) (thetaStar, propRat float64) {
	u := rng.Float64()
	c := math.Exp((u - 0.5) * epsilon)
	thetaStar = theta * c
	propRat = c
	return
}

// adjustStepLength will rescale a proposal step length toward the optimal
// acceptance probability for uniform proposals (0.44)
func adjustStepLength(epsilon, acceptanceRatio float64) (epsilonStar float64) {
	acceptanceRatioStar := 0.44
	if acceptanceRatio <= 0.01 {
		acceptanceRatio = 0.01
	}
	if acceptanceRatio >= 0.99 {
		acceptanceRatio = 0.99
	}
	s := math.Pi / 2.
	epsilonStar = epsilon * (math.Tan(s*acceptanceRatio) / math.Tan(s*acceptanceRatioStar))
	return
}

// InitMCMC sets up all of the attributes of the MCMC run
func InitMCMC(post *Posterior, cfg *RunConfig, logOut string, seed int64) (chain *MCMC) {
	chain = new(MCMC)
	chain.POST = post
	chain.NGEN = cfg.Generations
	chain.BURNIN = cfg.Burnin
	chain.THIN = cfg.Thin
	chain.PRINTFREQ = cfg.PrintFreq
	chain.WRITEFREQ = cfg.WriteFreq
	chain.LOGOUTFILE = logOut
	chain.BETASTEP = cfg.BetaStep
	chain.TAUSTEP = cfg.TauStep
	chain.RHOSTEP = cfg.RhoStep
	chain.PHISTEP = cfg.PhiStep
	chain.RNG = rand.New(rand.NewSource(seed))
	chain.STATE = InitParamState(post.Data.P, post.Data.N, post.Priors.Rho.Min, post.Priors.Rho.Max, chain.RNG)
	return
}

// MCMC is a struct for storing information about the current run
type MCMC struct {
	POST       *Posterior
	NGEN       int
	BURNIN     int
	THIN       int
	PRINTFREQ  int
	WRITEFREQ  int
	LOGOUTFILE string
	STATE      *ParamState
	BETASTEP   float64
	TAUSTEP    float64
	RHOSTEP    float64
	PHISTEP    float64
	RNG        *rand.Rand

	betaAcc, betaTry float64
	tauAcc, tauTry   float64
	rhoAcc, rhoTry   float64
	phiAcc, phiTry   float64
}

// Run will run Markov Chain Monte Carlo over the joint posterior, writing a
// tab-separated trace file and returning the post burn-in thinned draws
func (chain *MCMC) Run() (*Trace, error) {
	logFile, err := os.Create(chain.LOGOUTFILE)
	if err != nil {
		return nil, err
	}
	defer logFile.Close()
	logWriter := bufio.NewWriter(logFile)
	defer logWriter.Flush()
	chain.writeTraceHeader(logWriter)

	trace := InitTrace(string(chain.POST.Variant), chain.POST.Data.P, chain.POST.Data.N)
	chain.POST.CUR = chain.POST.Calc(chain.STATE)
	start := time.Now()
	for i := 0; i < chain.NGEN; i++ {
		chain.update()

		if i%200 == 0 && i != 0 && i <= chain.BURNIN { // tune step lengths during burn-in
			chain.BETASTEP = adjustStepLength(chain.BETASTEP, chain.betaAcc/chain.betaTry)
			chain.TAUSTEP = adjustStepLength(chain.TAUSTEP, chain.tauAcc/chain.tauTry)
			chain.RHOSTEP = adjustStepLength(chain.RHOSTEP, chain.rhoAcc/chain.rhoTry)
			chain.PHISTEP = adjustStepLength(chain.PHISTEP, chain.phiAcc/chain.phiTry)
		}
		if i == 0 {
			fmt.Println("generation", "logPosterior", "acceptanceRatio")
			fmt.Println("0", chain.POST.CUR, "NA")
		}
		if chain.PRINTFREQ > 0 && i%chain.PRINTFREQ == 0 && i != 0 {
			acc := (chain.betaAcc + chain.tauAcc + chain.rhoAcc + chain.phiAcc) /
				(chain.betaTry + chain.tauTry + chain.rhoTry + chain.phiTry)
			fmt.Println(i, chain.POST.CUR, acc)
		}
		if chain.WRITEFREQ > 0 && i%chain.WRITEFREQ == 0 {
			chain.writeTraceRow(logWriter, i)
		}
		if i >= chain.BURNIN && (i-chain.BURNIN)%chain.THIN == 0 {
			trace.Add(chain.STATE, chain.POST.CUR)
		}
	}
	trace.Elapsed = time.Since(start)
	return trace, nil
}

func (chain *MCMC) update() {
	chain.POST.LAST = chain.POST.CUR
	chain.betaUpdate()
	chain.tauUpdate()
	chain.rhoUpdate()
	chain.phiUpdate()
}

// metropolis accepts or restores a proposal given the proposed log posterior
// and the proposal ratio, returning true on acceptance
func (chain *MCMC) metropolis(lpstar, propRat float64) bool {
	alpha := math.Exp(lpstar-chain.POST.CUR) * propRat
	if chain.RNG.Float64() < alpha {
		chain.POST.CUR = lpstar
		return true
	}
	return false
}

func (chain *MCMC) betaUpdate() {
	st := chain.STATE
	for k := range st.Beta {
		old := st.Beta[k]
		st.Beta[k] = old + chain.BETASTEP*chain.RNG.NormFloat64()
		lpstar := chain.POST.Calc(st)
		chain.betaTry++
		if chain.metropolis(lpstar, 1.0) {
			chain.betaAcc++
		} else {
			st.Beta[k] = old
		}
	}
}

func (chain *MCMC) tauUpdate() {
	st := chain.STATE
	old := st.Tau
	var propRat float64
	st.Tau, propRat = multiplierProp(old, chain.TAUSTEP, chain.RNG)
	lpstar := chain.POST.Calc(st)
	chain.tauTry++
	if chain.metropolis(lpstar, propRat) {
		chain.tauAcc++
	} else {
		st.Tau = old
	}
}

func (chain *MCMC) rhoUpdate() {
	st := chain.STATE
	old := st.Rho
	st.Rho = slidingWindowProp(old, chain.RHOSTEP, chain.POST.Priors.Rho.Min, chain.POST.Priors.Rho.Max, chain.RNG)
	lpstar := chain.POST.Calc(st)
	chain.rhoTry++
	if chain.metropolis(lpstar, 1.0) {
		chain.rhoAcc++
	} else {
		st.Rho = old
	}
}

// phiUpdate sweeps the spatial effects one unit at a time
func (chain *MCMC) phiUpdate() {
	st := chain.STATE
	for i := range st.Phi {
		old := st.Phi[i]
		st.Phi[i] = old + chain.PHISTEP*chain.RNG.NormFloat64()
		lpstar := chain.POST.Calc(st)
		chain.phiTry++
		if chain.metropolis(lpstar, 1.0) {
			chain.phiAcc++
		} else {
			st.Phi[i] = old
		}
	}
}

func (chain *MCMC) writeTraceHeader(w *bufio.Writer) {
	fmt.Fprint(w, "generation\tlogPosterior")
	for k := 0; k < chain.POST.Data.P; k++ {
		fmt.Fprint(w, "\tbeta"+strconv.Itoa(k))
	}
	fmt.Fprint(w, "\ttau\trho\n")
}

func (chain *MCMC) writeTraceRow(w *bufio.Writer, gen int) {
	fmt.Fprint(w, strconv.Itoa(gen)+"\t"+strconv.FormatFloat(chain.POST.CUR, 'f', -1, 64))
	for _, b := range chain.STATE.Beta {
		fmt.Fprint(w, "\t"+strconv.FormatFloat(b, 'f', -1, 64))
	}
	fmt.Fprint(w, "\t"+strconv.FormatFloat(chain.STATE.Tau, 'f', -1, 64))
	fmt.Fprint(w, "\t"+strconv.FormatFloat(chain.STATE.Rho, 'f', -1, 64)+"\n")
}
