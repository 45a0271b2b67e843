// Package analysis extracts sloshing behaviour from stored frames.
//
//   - [CenterOfMass]: mean position of every sampled frame
//   - [PowerSpectrum]: magnitude spectrum of a series, any length
//   - [DominantFrequency]: strongest non-DC frequency, in cycles per frame
//   - [PhasePortrait]: a series against its per-frame rate of change
//
// # Sloshing
//
// A fluid released off-centre rocks back and forth in the bowl. The
// dominant frequency of the centre of mass x coordinate is the sloshing
// frequency:
//
//	com := analysis.CenterOfMass(frames)
//	f := analysis.DominantFrequency(analysis.Xs(com), float64(sampleEvery))
package analysis
