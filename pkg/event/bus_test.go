package event

import (
	"context"
	"slices"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	b := New()
	var got []string
	b.Subscribe(ReachedBottom, func(context.Context, Event) { got = append(got, "first") })
	b.Subscribe(ReachedBottom, func(context.Context, Event) { got = append(got, "second") })
	b.Subscribe("other", func(context.Context, Event) { got = append(got, "other") })

	b.Publish(context.Background(), Event{Topic: ReachedBottom})

	if want := []string{"first", "second"}; !slices.Equal(got, want) {
		t.Errorf("handlers ran %v, want %v", got, want)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	calls := 0
	s := b.Subscribe(ReachedBottom, func(context.Context, Event) { calls++ })

	s.Unsubscribe()
	s.Unsubscribe()
	b.Publish(context.Background(), Event{Topic: ReachedBottom})

	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if s.Active() {
		t.Error("subscription should be inactive")
	}
	if n := b.Count(ReachedBottom); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}

	var nilSub *Subscription
	nilSub.Unsubscribe()
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	b := New()
	var later *Subscription
	laterCalls := 0

	b.Subscribe(ReachedBottom, func(context.Context, Event) { later.Unsubscribe() })
	later = b.Subscribe(ReachedBottom, func(context.Context, Event) { laterCalls++ })

	b.Publish(context.Background(), Event{Topic: ReachedBottom})
	if laterCalls != 0 {
		t.Errorf("handler removed mid-dispatch ran %d times", laterCalls)
	}
}

func TestSubscribeDuringDispatch(t *testing.T) {
	b := New()
	added := 0
	b.Subscribe(ReachedBottom, func(context.Context, Event) {
		b.Subscribe(ReachedBottom, func(context.Context, Event) { added++ })
	})

	b.Publish(context.Background(), Event{Topic: ReachedBottom})
	if added != 0 {
		t.Errorf("handler added mid-dispatch ran %d times during that dispatch", added)
	}

	b.Publish(context.Background(), Event{Topic: ReachedBottom})
	if added != 1 {
		t.Errorf("added handler calls = %d, want 1", added)
	}
}
