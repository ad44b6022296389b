package agency

// AttributeName names one of the nine rateable qualities on the sheet
type AttributeName string

// Attribute names
const (
	AttributeFocus       AttributeName = "专注"
	AttributeDeceit      AttributeName = "欺瞒"
	AttributeVitality    AttributeName = "活力"
	AttributeEmpathy     AttributeName = "共情"
	AttributeInitiative  AttributeName = "主动"
	AttributePersistence AttributeName = "坚毅"
	AttributePresence    AttributeName = "气场"
	AttributeExpertise   AttributeName = "专业"
	AttributeMystique    AttributeName = "诡秘"
)

// AttributeNames lists every attribute in sheet order
var AttributeNames = []AttributeName{
	AttributeFocus,
	AttributeDeceit,
	AttributeVitality,
	AttributeEmpathy,
	AttributeInitiative,
	AttributePersistence,
	AttributePresence,
	AttributeExpertise,
	AttributeMystique,
}

// IsValid reports whether the name is one of the nine attributes
func (n AttributeName) IsValid() bool {
	for _, name := range AttributeNames {
		if name == n {
			return true
		}
	}
	return false
}

// TrackType selects one of the three progress tracks
type TrackType string

// Track types
const (
	TrackFunctional TrackType = "functional"
	TrackReality    TrackType = "reality"
	TrackAnomaly    TrackType = "anomaly"
)

// TrackTypes lists the tracks in cascade order
var TrackTypes = []TrackType{TrackFunctional, TrackReality, TrackAnomaly}

// Sheet constants
const (
	CurrentVersion      = "2.0.0"
	LegacyVersion       = "1.0.0"
	ProgressTrackSize   = 30
	CollapseSlotCount   = 4
	DefaultAttributeMax = 3
	MaxAttributeCeiling = 10
	DefaultNoteCount    = 5
	PermissionCount     = 3
	QuestionCount       = 9

	// SelfAssessmentBonus is added to an attribute's current value per tagged answer
	SelfAssessmentBonus = 3

	// CustomBonusIndex marks a relationship bonus written by the player
	CustomBonusIndex = -1

	// DefaultRelationshipType is the type given to new relationships
	DefaultRelationshipType = "同事"

	// DefaultExportName is used for exports of unnamed characters
	DefaultExportName = "角色卡"

	// TimestampLayout renders ISO-8601 with millisecond precision
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// RelationshipTypes is the closed set offered for relationships
var RelationshipTypes = []string{"同事", "朋友", "家人", "敌人", "恋人", "熟人", "其他"}

// QuestionKeys lists the keys of the questions map
var QuestionKeys = []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9"}
