package advice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleRequest() advice.Request {
	return advice.Request{
		PlayerTimestamps: []advice.PlayerTimestamp{
			{PlayerName: "A", ArrivalTime: "19:00", DepartureTime: "21:00"},
			{PlayerName: "B", ArrivalTime: "20:00", DepartureTime: "21:00"},
		},
		ShuttlecocksUsed: 3,
	}
}

type advisorFunc func(ctx context.Context, req advice.Request) (*advice.Suggestion, error)

func (f advisorFunc) Suggest(ctx context.Context, req advice.Request) (*advice.Suggestion, error) {
	return f(ctx, req)
}

func TestService_SuggestReturnsAdvisorAnswer(t *testing.T) {
	ctx := context.Background()
	req := sampleRequest()
	advisor := &mocks.Advisor{}
	advisor.On("Suggest", mock.Anything, req).Return(&advice.Suggestion{
		SuggestedMethod: "Proportional to time",
		Reasoning:       "B arrived an hour late.",
	}, nil)

	got := advice.NewService(advisor, 0, nil).Suggest(ctx, req)
	require.Equal(t, "Proportional to time", got.SuggestedMethod)
	require.False(t, got.Failed)
	advisor.AssertExpectations(t)
}

func TestService_SuggestFallsBackOnError(t *testing.T) {
	advisor := &mocks.Advisor{}
	advisor.On("Suggest", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	got := advice.NewService(advisor, 0, nil).Suggest(context.Background(), sampleRequest())
	require.Equal(t, advice.Fallback(), got)
	require.Equal(t, "Error", got.SuggestedMethod)
	require.Equal(t, "Could not fetch AI suggestion. Please check your connection or try again later.", got.Reasoning)
}

func TestService_SuggestFallsBackOnEmptyAnswer(t *testing.T) {
	advisor := &mocks.Advisor{}
	advisor.On("Suggest", mock.Anything, mock.Anything).Return(&advice.Suggestion{SuggestedMethod: "  "}, nil)

	got := advice.NewService(advisor, 0, nil).Suggest(context.Background(), sampleRequest())
	require.True(t, got.Failed)
}

func TestService_SuggestRecoversPanics(t *testing.T) {
	advisor := advisorFunc(func(context.Context, advice.Request) (*advice.Suggestion, error) {
		panic("boom")
	})

	var got advice.Suggestion
	require.NotPanics(t, func() {
		got = advice.NewService(advisor, 0, nil).Suggest(context.Background(), sampleRequest())
	})
	require.Equal(t, advice.Fallback(), got)
}

func TestService_SuggestWithoutAdvisor(t *testing.T) {
	got := advice.NewService(nil, 0, nil).Suggest(context.Background(), sampleRequest())
	require.Equal(t, advice.Fallback(), got)
}

func TestService_SuggestAppliesTimeout(t *testing.T) {
	advisor := advisorFunc(func(ctx context.Context, _ advice.Request) (*advice.Suggestion, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	got := advice.NewService(advisor, 20*time.Millisecond, nil).Suggest(context.Background(), sampleRequest())
	require.True(t, got.Failed)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestService_StartAndWait(t *testing.T) {
	release := make(chan struct{})
	advisor := advisorFunc(func(context.Context, advice.Request) (*advice.Suggestion, error) {
		<-release
		return &advice.Suggestion{SuggestedMethod: "Equal split", Reasoning: "Everyone played."}, nil
	})

	pending := advice.NewService(advisor, 0, nil).Start(context.Background(), sampleRequest())
	select {
	case <-pending.Done():
		t.Fatal("settled before the advisor answered")
	default:
	}

	close(release)
	got, err := pending.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Equal split", got.SuggestedMethod)
}

func TestPending_WaitHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	advisor := advisorFunc(func(context.Context, advice.Request) (*advice.Suggestion, error) {
		<-block
		return &advice.Suggestion{SuggestedMethod: "late"}, nil
	})

	pending := advice.NewService(advisor, 0, nil).Start(context.Background(), sampleRequest())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pending.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPending_CancelSettlesWithFallback(t *testing.T) {
	advisor := advisorFunc(func(ctx context.Context, _ advice.Request) (*advice.Suggestion, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	pending := advice.NewService(advisor, 0, nil).Start(context.Background(), sampleRequest())
	pending.Cancel()

	got, err := pending.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, advice.Fallback(), got)
}

func TestNewRequest_CopiesRawWindows(t *testing.T) {
	req := advice.NewRequest(nil, 0)
	require.Empty(t, req.PlayerTimestamps)

	req = advice.NewRequest([]allocation.PlayerAttendance{{Name: "A", ArrivalTime: "19:00", DepartureTime: "9:99"}}, 4)
	require.Equal(t, []advice.PlayerTimestamp{{PlayerName: "A", ArrivalTime: "19:00", DepartureTime: "9:99"}}, req.PlayerTimestamps)
	require.Equal(t, 4, req.ShuttlecocksUsed)
}
