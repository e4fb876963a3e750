package usecases

import (
	"context"

	"github.com/iwtcode/inspectionService/internal/domain/models"
)

func (u *Usecase) RunInference(ctx context.Context) (models.InferenceResult, error) {
	return u.inference.Run(ctx)
}

func (u *Usecase) LatestInference() models.LatestInference {
	result, ok := u.inference.Latest()
	if !ok {
		return models.LatestInference{HasResult: false}
	}
	ts := result.Timestamp
	return models.LatestInference{
		HasResult:       true,
		Sequence:        result.Sequence,
		Timestamp:       &ts,
		OverlayURL:      result.OverlayURL,
		Defects:         result.Defects,
		InferenceTimeMs: result.InferenceTimeMs,
		SourceImage:     result.SourceImage,
	}
}

func (u *Usecase) InferenceResultPath(name string) (string, error) {
	return u.inference.ResultPath(name)
}

func (u *Usecase) ListInferenceResults() ([]models.ResultImage, error) {
	return u.inference.ListResults(resultsListLimit)
}

func (u *Usecase) ClearInferenceResults() (int, error) {
	return u.inference.ClearResults()
}
