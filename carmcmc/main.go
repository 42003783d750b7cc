package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	carstan "github.com/bgoodri/CARstan"
)

func main() {
	adjArg := flag.String("adj", "", "adjacency file: first line n, then one \"i j\" neighbor pair per line (1-indexed)")
	dataArg := flag.String("d", "", "data file: one row per unit, \"y expected x1 ... xp\"")
	demoArg := flag.Bool("demo", false, "run on a simulated lattice dataset instead of input files")
	modelArg := flag.String("model", "both", "CAR formulation to run:\n\tsparse\tedge list + precomputed eigenvalues\n\tdense\tfull precision matrix per evaluation\n\tboth\trun the two variants and compare efficiency")
	genArg := flag.Int("gen", 0, "number of MCMC generations (0 = config value)")
	burnArg := flag.Int("burn", -1, "burn-in generations (-1 = config value)")
	chainArg := flag.Int("chains", 0, "number of independent chains (0 = config value)")
	seedArg := flag.Int64("seed", 0, "RNG seed (0 = config value)")
	printFreqArg := flag.Int("pr", 0, "frequency with which to print to the screen (0 = config value)")
	confArg := flag.String("c", "", "YAML run configuration file")
	runNameArg := flag.String("o", "carmcmc", "prefix for outfile names")
	dbArg := flag.String("db", "", "sqlite file to persist posterior draws (optional)")
	flag.Parse()

	cfg := carstan.DefaultRunConfig()
	if *confArg != "" {
		var err error
		cfg, err = carstan.LoadRunConfig(*confArg)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *genArg > 0 {
		cfg.Generations = *genArg
	}
	if *burnArg >= 0 {
		cfg.Burnin = *burnArg
	}
	if *chainArg > 0 {
		cfg.Chains = *chainArg
	}
	if *seedArg != 0 {
		cfg.Seed = *seedArg
	}
	if *printFreqArg > 0 {
		cfg.PrintFreq = *printFreqArg
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	var adj *carstan.Adjacency
	var ds *carstan.Dataset
	if *demoArg {
		adj = carstan.GridAdjacency(8, 8)
		rng := rand.New(rand.NewSource(cfg.Seed))
		ds = carstan.SimulateDataset(adj, []float64{0.5, 0.8}, 0.3, rng)
		fmt.Println("SIMULATED", adj.N, "UNIT LATTICE DATASET")
	} else {
		if *adjArg == "" || *dataArg == "" {
			fmt.Println("need -adj and -d input files (or -demo)")
			os.Exit(1)
		}
		var err error
		adj, err = carstan.ReadAdjacency(*adjArg)
		if err != nil {
			log.Fatal(err)
		}
		ds, err = carstan.ReadDataset(*dataArg)
		if err != nil {
			log.Fatal(err)
		}
	}

	car, err := carstan.InitCAR(adj)
	if err != nil {
		log.Fatal(err)
	}
	if err := ds.Validate(car); err != nil {
		log.Fatal(err)
	}
	fmt.Println("PRECOMPUTED CAR STRUCTURE:", car.N, "UNITS,", len(car.Edges), "NEIGHBOR PAIRS")
	priors := cfg.MakePriors(car)

	var variants []carstan.Variant
	switch *modelArg {
	case "sparse":
		variants = []carstan.Variant{carstan.SparseVariant}
	case "dense":
		variants = []carstan.Variant{carstan.DenseVariant}
	case "both":
		variants = []carstan.Variant{carstan.SparseVariant, carstan.DenseVariant}
	default:
		fmt.Println("unknown -model:", *modelArg)
		os.Exit(1)
	}

	var store *carstan.SampleStore
	if *dbArg != "" {
		store = carstan.NewSampleStore(*dbArg)
		if err := store.Init(context.Background()); err != nil {
			log.Fatal(err)
		}
		defer store.Close()
	}

	var bench []carstan.Benchmark
	for _, variant := range variants {
		fmt.Println("RUNNING", variant, "MODEL:", cfg.Chains, "CHAINS x", cfg.Generations, "GENERATIONS")
		post := carstan.InitPosterior(ds, car, priors, variant)
		prefix := fmt.Sprintf("%s.%s", *runNameArg, variant)
		start := time.Now()
		traces, err := carstan.RunChains(post, cfg, prefix)
		if err != nil {
			log.Fatal(err)
		}
		elapsed := time.Since(start)

		merged := carstan.MergeTraces(traces)
		fmt.Printf("%-8s %10s %10s %10s %10s %8s\n", "param", "mean", "median", "2.5%", "97.5%", "n_eff")
		for _, name := range merged.Names[:ds.P+2] { // beta, tau, rho
			s := merged.Summarize(name)
			fmt.Printf("%-8s %10.3f %10.3f %10.3f %10.3f %8.0f\n", s.Name, s.Mean, s.Median, s.Lower, s.Upper, s.ESS)
		}
		bench = append(bench, merged.Efficiency())

		if store != nil {
			runID := fmt.Sprintf("%s-%s-%d", *runNameArg, variant, cfg.Seed)
			err := store.SaveRun(context.Background(), carstan.RunRecord{
				ID:          runID,
				Variant:     string(variant),
				Generations: cfg.Generations,
				ElapsedSec:  elapsed.Seconds(),
				Created:     time.Now(),
			})
			if err != nil {
				log.Fatal(err)
			}
			for c, tr := range traces {
				if err := store.SaveTrace(context.Background(), runID, c, tr); err != nil {
					log.Fatal(err)
				}
			}
		}
		fmt.Println("COMPLETED", cfg.Chains*cfg.Generations, "MCMC SIMULATIONS IN", elapsed)
	}

	if len(bench) > 1 {
		fmt.Print(carstan.FormatBenchmarks(bench))
	}
}
