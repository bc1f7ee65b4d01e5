package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "iblbake"
	app.Usage = "precompute image based lighting environments without a window"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "bake",
			Usage: "bake equirectangular images into background, irradiance, prefilter and brdf lut files",
			Description: `
Convert every input image (.hdr or .f32) to a background cube map, convolve the
irradiance and prefiltered specular maps and integrate the brdf lookup table.

Cube maps are written as .iblenv files, the lookup table as a .f32 image.`,
			ArgsUsage: "image-glob...",
			Flags:     bakeFlags(),
			Action:    BakeEnvironments,
		},
		{
			Name:      "inspect",
			Usage:     "print the headers of .iblenv and .f32 files",
			ArgsUsage: "file-glob...",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "decode, d",
					Usage: "decode the pixels and report their range",
				},
			},
			Action: InspectFiles,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
