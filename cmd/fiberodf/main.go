package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"fiberodf/pkg/config"
	"fiberodf/pkg/odf"
	"fiberodf/pkg/odfio"
	"fiberodf/pkg/visualization"
	"fiberodf/pkg/volume"
)

func main() {
	cfg := config.DefaultConfig()

	// Parse command line arguments
	inputPath := flag.String("input", "", "Input 4D fiber orientation volume (.npy)")
	isoPath := flag.String("iso", "", "Optional isotropic channel volume (.npy) for the background map")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	outputDir := flag.String("output", cfg.Output.Directory, "Directory for result volumes")
	blockSide := flag.Int("side", cfg.Odf.BlockSide, "Edge length in voxels of the cubic super-voxels")
	maxDegree := flag.Int("degree", cfg.Odf.MaxDegree, "Even truncation degree of the harmonic series")
	occupancy := flag.Float64("occupancy", cfg.Odf.OccupancyThreshold, "Minimum clamped-to-reference block volume ratio")
	validity := flag.Float64("validity", cfg.Odf.ValidityThreshold, "Minimum fraction of nonzero vectors per block")
	workers := flag.Int("workers", cfg.Odf.Workers, "Number of goroutines estimating blocks (default: all cores)")
	directions := flag.Int("directions", cfg.Metrics.Directions, "Sphere samples per ODF for the anisotropy map")
	saveNifti := flag.Bool("save-nii", cfg.Output.SaveNifti, "Also save the coefficient volume as NIfTI-1")
	saveGFA := flag.Bool("gfa", cfg.Output.SaveAnisotropy, "Save a generalized fractional anisotropy map")
	savePreviews := flag.Bool("previews", cfg.Output.SavePreviews, "Save per-slice PNG previews of the input and background")
	verbose := flag.Bool("verbose", cfg.Output.Verbose, "Enable debug logging")
	flag.Parse()

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	// A configuration file replaces the defaults; explicitly set flags
	// still take precedence over it.
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.Output.Directory = *outputDir
		case "side":
			cfg.Odf.BlockSide = *blockSide
		case "degree":
			cfg.Odf.MaxDegree = *maxDegree
		case "occupancy":
			cfg.Odf.OccupancyThreshold = *occupancy
		case "validity":
			cfg.Odf.ValidityThreshold = *validity
		case "workers":
			cfg.Odf.Workers = *workers
		case "directions":
			cfg.Metrics.Directions = *directions
		case "save-nii":
			cfg.Output.SaveNifti = *saveNifti
		case "gfa":
			cfg.Output.SaveAnisotropy = *saveGFA
		case "previews":
			cfg.Output.SavePreviews = *savePreviews
		case "verbose":
			cfg.Output.Verbose = *verbose
		}
	})

	if cfg.Output.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	fmt.Println("================================")
	fmt.Println("FIBER ORIENTATION DISTRIBUTION FUNCTIONS FROM 3D ORIENTATION FIELDS")
	fmt.Println("Spherical harmonic ODF estimation over super-voxel blocks")
	fmt.Println("================================")

	// Load the orientation field and the optional isotropic channel
	field, err := odfio.LoadVectorField(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load orientation field: %v", err)
	}
	fmt.Printf("Loaded orientation field of shape (%d, %d, %d)\n", field.Z, field.Y, field.X)

	var iso *volume.ScalarVolume
	if *isoPath != "" {
		if iso, err = odfio.LoadScalarVolume(*isoPath); err != nil {
			log.Fatalf("Failed to load isotropic volume: %v", err)
		}
	}

	builder, err := odf.NewBuilder(odf.Params{
		BlockSide:          cfg.Odf.BlockSide,
		MaxDegree:          cfg.Odf.MaxDegree,
		OccupancyThreshold: cfg.Odf.OccupancyThreshold,
		ValidityThreshold:  cfg.Odf.ValidityThreshold,
		Workers:            cfg.Odf.Workers,
	})
	if err != nil {
		log.Fatalf("Invalid estimation parameters: %v", err)
	}

	// Run the estimation pipeline
	fmt.Println("Starting ODF estimation with parallel processing...")
	startTime := time.Now()
	coeff, bg, err := builder.Build(field, iso)
	if err != nil {
		log.Fatalf("ODF estimation failed: %v", err)
	}
	processingTime := time.Since(startTime)

	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	coeffPath := filepath.Join(cfg.Output.Directory, "odf_sh.npy")
	if err := odfio.SaveCoeffVolume(coeffPath, coeff); err != nil {
		log.Fatalf("Failed to save coefficient volume: %v", err)
	}
	bgPath := filepath.Join(cfg.Output.Directory, "background.npy")
	if err := odfio.SaveBackground(bgPath, bg); err != nil {
		log.Fatalf("Failed to save background volume: %v", err)
	}

	fmt.Printf("\nODF estimation completed successfully in %.2f seconds!\n", processingTime.Seconds())
	fmt.Printf("Coefficient volume saved to: %s\n", coeffPath)
	fmt.Printf("Background volume saved to: %s\n\n", bgPath)

	fmt.Printf("Estimation summary:\n")
	fmt.Printf("===================\n")
	fmt.Printf("Super-voxel grid: %d x %d x %d (side %d)\n", coeff.Z, coeff.Y, coeff.X, cfg.Odf.BlockSide)
	fmt.Printf("Series degree: %d (%d coefficients per cell)\n", cfg.Odf.MaxDegree, coeff.C)
	fmt.Printf("Estimated cells: %d of %d\n", estimatedCells(coeff), coeff.Z*coeff.Y*coeff.X)
	fmt.Printf("Workers: %d\n", cfg.Odf.Workers)

	if cfg.Output.SaveNifti {
		niiPath := filepath.Join(cfg.Output.Directory, "odf_sh.nii")
		if err := odfio.SaveCoeffNIfTI(niiPath, coeff); err != nil {
			log.Fatalf("Failed to save NIfTI volume: %v", err)
		}
		fmt.Printf("\nNIfTI coefficient volume saved to: %s\n", niiPath)
	}

	if cfg.Output.SaveAnisotropy {
		fmt.Println("\nComputing generalized fractional anisotropy map...")
		gfa, err := odf.AnisotropyMap(coeff, cfg.Odf.MaxDegree, cfg.Metrics.Directions)
		if err != nil {
			log.Fatalf("Anisotropy map failed: %v", err)
		}
		gfaPath := filepath.Join(cfg.Output.Directory, "gfa.npy")
		if err := odfio.SaveScalarVolume(gfaPath, gfa); err != nil {
			log.Fatalf("Failed to save anisotropy map: %v", err)
		}
		fmt.Printf("Anisotropy map saved to: %s\n", gfaPath)
	}

	if cfg.Output.SavePreviews {
		fmt.Println("\nRendering per-slice previews...")
		previewDir := filepath.Join(cfg.Output.Directory, "previews")
		if err := visualization.SaveOrientationSequence(field, filepath.Join(previewDir, "orientation")); err != nil {
			log.Printf("Warning: Failed to save orientation previews: %v", err)
		}
		if err := visualization.SaveBackgroundSequence(bg, filepath.Join(previewDir, "background")); err != nil {
			log.Printf("Warning: Failed to save background previews: %v", err)
		}
		fmt.Printf("Previews saved to: %s\n", previewDir)
	}
}

// estimatedCells counts the grid cells that received a nonzero series.
func estimatedCells(coeff *volume.CoeffVolume) int {
	count := 0
	for z := 0; z < coeff.Z; z++ {
		for y := 0; y < coeff.Y; y++ {
			for x := 0; x < coeff.X; x++ {
				for _, c := range coeff.CoeffsAt(z, y, x) {
					if c != 0 {
						count++
						break
					}
				}
			}
		}
	}
	return count
}
