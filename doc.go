// Package navis provides containers and analysis tools for skeletonized
// neuron morphologies.
//
// A neuron is a rooted tree stored as an SWC-style node table
// (id, label, x, y, z, radius, parent_id). The root package is a facade
// over the subpackages: neuron (containers), swc (format), morpho
// (skeleton operations), graph (gonum graph and KD-tree views), plot
// (2D projections) and blobstore (remote sources).
//
// # Quick Start
//
//	ctx := context.Background()
//	nl, _ := navis.ReadSWC(ctx, "./skeletons")       // file, dir, URL or raw SWC
//	fmt.Println(nl.TotalCableLength())
//
//	ds, _ := navis.Downsample(nl.At(0), 4, morpho.DownsampleOptions{})
//	_ = navis.WriteSWC(ctx, ds, "downsampled.swc.gz") // compressed by extension
//
// # Copy Semantics
//
// Operations in the morpho package mutate the neuron they are given.
// The equivalents exported from this package never do: they deep-copy
// first and return the modified copy, so the input is left untouched.
//
// # Remote Sources
//
//	store, _ := s3.NewFromDefaultConfig(ctx, "my-bucket", "skeletons/")
//	nl, _ := navis.ReadStore(ctx, store, "", navis.WithWorkers(8))
package navis
