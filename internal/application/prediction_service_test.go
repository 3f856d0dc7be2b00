package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/fitlife-api/internal/infrastructure/prediction"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
)

type fakePredictor struct {
	got prediction.Request
	res *prediction.Result
	err error
}

func (f *fakePredictor) Predict(_ context.Context, req prediction.Request) (*prediction.Result, error) {
	f.got = req
	return f.res, f.err
}

func TestPredict_DefaultsDistanceToZero(t *testing.T) {
	p := &fakePredictor{res: &prediction.Result{PredictedActivity: "Walking", IsMLPrediction: true}}
	svc := NewPredictionService(p, helpers.NewDiscardLogger())

	res, err := svc.Predict(context.Background(), "alice", PredictInput{Duration: ptr(40.0), Calories: ptr(150.0)})
	require.NoError(t, err)
	assert.Equal(t, "Walking", res.PredictedActivity)
	assert.Equal(t, prediction.Request{Duration: 40, Distance: 0, Calories: 150}, p.got)
}

func TestPredict_Validation(t *testing.T) {
	svc := NewPredictionService(&fakePredictor{}, helpers.NewDiscardLogger())

	_, err := svc.Predict(context.Background(), "alice", PredictInput{Duration: ptr(0.0), Distance: ptr(-2.0)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "duration")
	assert.Contains(t, verr.Fields, "distance")
	assert.Contains(t, verr.Fields, "calories")
}

func TestPredict_Unavailable(t *testing.T) {
	p := &fakePredictor{err: errors.New("connection refused")}
	svc := NewPredictionService(p, helpers.NewDiscardLogger())

	_, err := svc.Predict(context.Background(), "alice", PredictInput{Duration: ptr(40.0), Calories: ptr(150.0)})
	assert.ErrorIs(t, err, ErrPredictionUnavailable)
}
