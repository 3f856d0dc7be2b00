package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/internal/infrastructure/prediction"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/validation"
)

// ErrPredictionUnavailable means the classifier could not be reached or answered badly.
var ErrPredictionUnavailable = errors.New("prediction service unavailable")

// Predictor is the external activity classifier. *prediction.Client satisfies it.
type Predictor interface {
	Predict(ctx context.Context, req prediction.Request) (*prediction.Result, error)
}

type PredictInput struct {
	Duration *float64 `json:"duration" validate:"required,gt=0"`
	Distance *float64 `json:"distance" validate:"omitempty,gte=0"`
	Calories *float64 `json:"calories" validate:"required,gt=0"`
}

type PredictionService struct {
	Predictor Predictor
	Logger    *logrus.Logger
}

func NewPredictionService(p Predictor, logger *logrus.Logger) *PredictionService {
	return &PredictionService{Predictor: p, Logger: logger}
}

// Predict validates the metrics and asks the classifier for an activity type.
func (s *PredictionService) Predict(ctx context.Context, userID string, in PredictInput) (*prediction.Result, error) {
	if err := validation.Struct(in); err != nil {
		return nil, &ValidationError{Fields: validation.ToDetails(err)}
	}
	req := prediction.Request{Duration: *in.Duration, Calories: *in.Calories}
	if in.Distance != nil {
		req.Distance = *in.Distance
	}
	res, err := s.Predictor.Predict(ctx, req)
	if err != nil {
		helpers.LogWarn(s.Logger, "activity prediction failed", err, logrus.Fields{"user_id": userID})
		return nil, errors.Join(ErrPredictionUnavailable, err)
	}
	return res, nil
}
