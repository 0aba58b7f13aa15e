package main

import (
	"context"
	"fmt"
	"time"

	client "github.com/hugolgst/rich-go/client"
	"golang.org/x/time/rate"

	"gotiles/display"
	"gotiles/monlist"
)

const discordAppID = "1406171210240360508"

// presence publishes the number of monsters in view as Discord rich
// presence. Discord drops updates sent more often than every 15 seconds.
type presence struct {
	start   time.Time
	details string
	limit   *rate.Limiter
	last    string
}

func initDiscordRPC(ctx context.Context, details string) *presence {
	if err := client.Login(discordAppID); err != nil {
		logError("discord rpc login: %v", err)
		return nil
	}
	p := &presence{
		start:   time.Now(),
		details: details,
		limit:   rate.NewLimiter(rate.Every(15*time.Second), 1),
	}
	p.publish("Exploring")
	go func() {
		<-ctx.Done()
		client.Logout()
	}()
	return p
}

func presenceState(groups []monlist.Group) string {
	n := 0
	for _, g := range groups {
		n += len(g.Entries)
	}
	switch n {
	case 0:
		return "Exploring"
	case 1:
		return "Facing " + groups[0].Label
	}
	return fmt.Sprintf("Facing %d monsters", n)
}

func (p *presence) publish(state string) {
	if state == p.last || !p.limit.Allow() {
		return
	}
	p.last = state
	if err := client.SetActivity(client.Activity{
		State:   state,
		Details: p.details,
		Timestamps: &client.Timestamps{
			Start: &p.start,
		},
	}); err != nil {
		logDebug("discord rpc activity: %v", err)
	}
}

func (p *presence) Render(groups []monlist.Group) {
	p.publish(presenceState(groups))
}

// panelFanout hands the monster panel to several renderers.
type panelFanout []display.PanelRenderer

func (f panelFanout) Render(groups []monlist.Group) {
	for _, r := range f {
		r.Render(groups)
	}
}

func (f panelFanout) Reset() {
	for _, r := range f {
		if rs, ok := r.(display.Resetter); ok {
			rs.Reset()
		}
	}
}
