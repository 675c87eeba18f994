package roundhandlers

import (
	"context"

	roundservice "github.com/Black-And-White-Club/ulti-bot/app/modules/round/application"
	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
	"github.com/ThreeDotsLabs/watermill/message"
)

// FakeRoundService records calls and delegates to the Func fields.
type FakeRoundService struct {
	trace []string

	CreateRoundFunc func(ctx context.Context, gameID int64, req roundtypes.CreateRoundRequest) (*roundtypes.RoundInfo, error)
	GetRoundFunc    func(ctx context.Context, id int64) (*roundtypes.RoundInfo, error)
	ListRoundsFunc  func(ctx context.Context, gameID int64) ([]roundtypes.RoundInfo, error)
}

func NewFakeRoundService() *FakeRoundService {
	return &FakeRoundService{trace: []string{}}
}

func (f *FakeRoundService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundService) CreateRound(ctx context.Context, gameID int64, req roundtypes.CreateRoundRequest) (*roundtypes.RoundInfo, error) {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, gameID, req)
	}
	return &roundtypes.RoundInfo{GameID: gameID}, nil
}

func (f *FakeRoundService) GetRound(ctx context.Context, id int64) (*roundtypes.RoundInfo, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, id)
	}
	return &roundtypes.RoundInfo{ID: id}, nil
}

func (f *FakeRoundService) ListRounds(ctx context.Context, gameID int64) ([]roundtypes.RoundInfo, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, gameID)
	}
	return nil, nil
}

func (f *FakeRoundService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ roundservice.Service = (*FakeRoundService)(nil)

// FakePublisher keeps published messages per topic.
type FakePublisher struct {
	Published map[string][]*message.Message
	Err       error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	if p.Err != nil {
		return p.Err
	}
	p.Published[topic] = append(p.Published[topic], messages...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

var _ message.Publisher = (*FakePublisher)(nil)
