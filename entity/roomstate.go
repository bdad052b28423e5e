package entity

import "github.com/onnwee/chat-tender/backend/tags"

// RoomState is a channel moderation-mode snapshot. Fields are pointers so
// partial upstream payloads serialize with absent keys omitted instead of
// leaking false/0 defaults: consumers treat "absent" as unknown/off. A new
// snapshot replaces the previous one wholesale; the core never merges.
type RoomState struct {
	RoomID        string
	Language      string
	EmoteOnly     *bool
	FollowersOnly *int // minutes; -1 means disabled
	R9K           *bool
	Slow          *int // seconds between messages
	SubsOnly      *bool
}

// NewRoomState builds a snapshot from a ROOMSTATE tag map. Only tags present
// on the wire populate fields.
func NewRoomState(tm tags.Map) RoomState {
	rs := RoomState{
		RoomID:   tm.String("room-id"),
		Language: tm.String("broadcaster-lang"),
	}
	if tm.Has("emote-only") {
		v := tm.Bool("emote-only")
		rs.EmoteOnly = &v
	}
	if tm.Has("followers-only") {
		v := tm.Int("followers-only")
		rs.FollowersOnly = &v
	}
	if tm.Has("r9k") {
		v := tm.Bool("r9k")
		rs.R9K = &v
	}
	if tm.Has("slow") {
		v := tm.Int("slow")
		rs.Slow = &v
	}
	if tm.Has("subs-only") {
		v := tm.Bool("subs-only")
		rs.SubsOnly = &v
	}
	return rs
}

// RoomStateRecord is the JSON-safe projection; undefined flags marshal to no
// key at all.
type RoomStateRecord struct {
	RoomID        string `json:"room_id,omitempty"`
	Language      string `json:"broadcaster_lang,omitempty"`
	EmoteOnly     *bool  `json:"emote_only,omitempty"`
	FollowersOnly *int   `json:"followers_only,omitempty"`
	R9K           *bool  `json:"r9k,omitempty"`
	Slow          *int   `json:"slow,omitempty"`
	SubsOnly      *bool  `json:"subs_only,omitempty"`
}

// Serialize projects the snapshot, copying pointer fields so the record shares
// no state with the entity.
func (rs RoomState) Serialize() RoomStateRecord {
	out := RoomStateRecord{RoomID: rs.RoomID, Language: rs.Language}
	if rs.EmoteOnly != nil {
		v := *rs.EmoteOnly
		out.EmoteOnly = &v
	}
	if rs.FollowersOnly != nil {
		v := *rs.FollowersOnly
		out.FollowersOnly = &v
	}
	if rs.R9K != nil {
		v := *rs.R9K
		out.R9K = &v
	}
	if rs.Slow != nil {
		v := *rs.Slow
		out.Slow = &v
	}
	if rs.SubsOnly != nil {
		v := *rs.SubsOnly
		out.SubsOnly = &v
	}
	return out
}
