package model

import "time"

// SnapshotVersion is the current BoardSnapshot format version.
const SnapshotVersion = 1

// BoardSnapshot is the JSON/YAML export of one board and everything it owns.
// Users maps the user ids referenced by the snapshot to usernames.
type BoardSnapshot struct {
	Version     int            `json:"version" yaml:"version"`
	ExportedAt  time.Time      `json:"exported_at" yaml:"exported_at"`
	Board       *Board         `json:"board" yaml:"board"`
	Containers  []*Container   `json:"containers" yaml:"containers"`
	Cards       []*Card        `json:"cards" yaml:"cards"`
	Labels      []*Label       `json:"labels" yaml:"labels"`
	Members     []*Member      `json:"members" yaml:"members"`
	Attachments []*Attachment  `json:"attachments" yaml:"attachments"`
	Users       map[int]string `json:"users" yaml:"users"`
}
