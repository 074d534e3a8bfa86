// Package quality maps similarity feature vectors to a MOS-LQO score in
// [1, 5].
//
// Two mappers implement [Mapper]:
//
//   - [SpeechMapper] applies a fitted exponential to the mean similarity.
//   - [SVRMapper] evaluates a support vector regression model stored in
//     the libsvm text format (see [LoadSVRModel]).
//
// Example:
//
//	m, err := quality.NewSVRMapper("model/libsvm_nu_svr_model.txt")
//	if err != nil {
//		return err
//	}
//	mos := m.PredictQuality(fvnsim)
package quality
