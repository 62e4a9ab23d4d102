package model

// SeedData is the startup payload supplied by the persistence collaborator.
// The engine treats these collections as its initial in-memory state.
type SeedData struct {
	Processes    []*Process        `json:"processes"`
	Steps        []*Step           `json:"steps"`
	Instances    []*Instance       `json:"instances"`
	Tasks        []*Task           `json:"tasks"`
	Comments     []*Comment        `json:"comments"`
	Messages     []*Message        `json:"messages"`
	Logs         []*WorkflowLog    `json:"logs"`
	Applications []*Application    `json:"applications"`
	Attachments  []*FileAttachment `json:"attachments"`
}
