package mesh

// Identifier types are distinct so ids from different spaces cannot be
// assigned to one another without an explicit conversion.
type (
	NetworkID string
	NodeID    string
	EdgeID    string
	PolicyID  string
	ChannelID string
	IntentID  string
	RunID     string
)

// NoPolicy is used as the policy id of a routing decision when the snapshot
// carries no policies.
const NoPolicy PolicyID = "none"

func (id NodeID) String() string   { return string(id) }
func (id EdgeID) String() string   { return string(id) }
func (id PolicyID) String() string { return string(id) }
