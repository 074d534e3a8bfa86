// Package visqol computes a full-reference perceptual quality score
// (MOS-LQO) for a degraded signal against its reference.
//
// A comparison runs these stages:
//
//  1. Align the degraded signal to the reference by envelope
//     cross-correlation and match its sound pressure level.
//  2. Build gammatone spectrograms of both signals and bring them to a
//     common dB floor.
//  3. Cut reference patches, on a fixed grid in audio mode or gated by
//     voice activity in speech mode.
//  4. Match every reference patch to a degraded window with dynamic
//     programming, then realign each matched pair in the time domain.
//  5. Pool the per-band NSIM statistics and map them to a MOS.
//
// Usage:
//
//	api, err := visqol.New(visqol.SpeechConfig())
//	if err != nil {
//		return err
//	}
//	res, err := api.MeasureFiles(ctx, "ref.wav", "deg.wav")
//	if err != nil {
//		return err
//	}
//	fmt.Printf("MOS-LQO %.3f\n", res.MOSLQO)
package visqol
