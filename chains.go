package carstan

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunChains runs cfg.Chains independent MCMC chains over the same posterior
// and returns one trace per chain. The chains share the read-only data and
// precomputed CAR structure; each gets its own state, RNG (seeded cfg.Seed+c),
// and trace file named <prefix>.chain<c>.log.
func RunChains(post *Posterior, cfg *RunConfig, prefix string) ([]*Trace, error) {
	traces := make([]*Trace, cfg.Chains)
	g := new(errgroup.Group)
	for c := 0; c < cfg.Chains; c++ {
		c := c
		g.Go(func() error {
			chain := InitMCMC(post.Clone(), cfg, fmt.Sprintf("%s.chain%d.log", prefix, c), cfg.Seed+int64(c))
			tr, err := chain.Run()
			if err != nil {
				return fmt.Errorf("chain %d: %w", c, err)
			}
			traces[c] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return traces, nil
}
