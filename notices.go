package main

import (
	"sync"
	"time"
)

const (
	maxNotices     = 5
	noticeLifetime = 15 * time.Second
)

type notice struct {
	text   string
	expire time.Time
}

// Short-lived status lines shown over the map by the window and terminal
// renderers.
var (
	noticeMu sync.Mutex
	notices  []notice
)

func addNotice(msg string) {
	if msg == "" {
		return
	}
	noticeMu.Lock()
	defer noticeMu.Unlock()
	notices = append(notices, notice{text: msg, expire: time.Now().Add(noticeLifetime)})
	if len(notices) > maxNotices {
		notices = notices[len(notices)-maxNotices:]
	}
}

func getNotices() []string {
	noticeMu.Lock()
	defer noticeMu.Unlock()

	now := time.Now()
	var out []string
	var keep []notice
	for _, n := range notices {
		if now.After(n.expire) {
			continue
		}
		out = append(out, n.text)
		keep = append(keep, n)
	}
	notices = keep
	return out
}
