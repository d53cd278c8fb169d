package types

import "slices"

type ServiceMode string

// RescueService - production mode backed by PostgreSQL, RabbitMQ and Redis
// Standalone - single process with in-memory storage, used for local runs and demos
const (
	RescueService ServiceMode = "rescue-service"
	Standalone    ServiceMode = "standalone"
)

func (m ServiceMode) IsValid() bool {
	return m == RescueService || m == Standalone
}

// Vehicle of the stranded party
type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleSUV        VehicleType = "suv"
	VehicleUTV        VehicleType = "utv"
	VehicleTruck      VehicleType = "truck"
	VehicleBus        VehicleType = "bus"
	VehicleATV        VehicleType = "atv"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleVan        VehicleType = "van"
	VehicleOther      VehicleType = "other"
)

var VehicleTypes = []string{"car", "suv", "utv", "truck", "bus", "atv", "motorcycle", "van", "other"}

func (v VehicleType) String() string { return string(v) }
func (v VehicleType) IsValid() bool  { return slices.Contains(VehicleTypes, string(v)) }

type Drivetrain string

const (
	TwoWD  Drivetrain = "two_wd"
	FourWD Drivetrain = "four_wd"
	AWD    Drivetrain = "awd"
)

var Drivetrains = []string{"two_wd", "four_wd", "awd"}

func (d Drivetrain) String() string { return string(d) }
func (d Drivetrain) IsValid() bool  { return slices.Contains(Drivetrains, string(d)) }

type TerrainType string

const (
	TerrainAsphalt TerrainType = "asphalt"
	TerrainSand    TerrainType = "sand"
	TerrainMud     TerrainType = "mud"
	TerrainRock    TerrainType = "rock"
	TerrainSnow    TerrainType = "snow"
	TerrainWater   TerrainType = "water"
	TerrainGravel  TerrainType = "gravel"
	TerrainOther   TerrainType = "other"
)

var TerrainTypes = []string{"asphalt", "sand", "mud", "rock", "snow", "water", "gravel", "other"}

func (t TerrainType) String() string { return string(t) }
func (t TerrainType) IsValid() bool  { return slices.Contains(TerrainTypes, string(t)) }

type ProblemType string

const (
	ProblemStuck      ProblemType = "stuck"
	ProblemMechanical ProblemType = "mechanical"
	ProblemFlatTire   ProblemType = "flat_tire"
	ProblemBattery    ProblemType = "battery"
	ProblemFuel       ProblemType = "fuel"
	ProblemAccident   ProblemType = "accident"
	ProblemOther      ProblemType = "other"
)

var ProblemTypes = []string{"stuck", "mechanical", "flat_tire", "battery", "fuel", "accident", "other"}

func (p ProblemType) String() string { return string(p) }
func (p ProblemType) IsValid() bool  { return slices.Contains(ProblemTypes, string(p)) }

// Progress of help as reported by the parties
type AssistanceStatus string

const (
	AssistanceNone          AssistanceStatus = "none"
	AssistanceEnRoute       AssistanceStatus = "en_route"
	AssistanceOnSite        AssistanceStatus = "on_site"
	AssistanceNeedsMoreHelp AssistanceStatus = "needs_more_help"
	AssistanceResolved      AssistanceStatus = "resolved"
)

var AssistanceStatuses = []string{"none", "en_route", "on_site", "needs_more_help", "resolved"}

func (a AssistanceStatus) String() string { return string(a) }
func (a AssistanceStatus) IsValid() bool  { return slices.Contains(AssistanceStatuses, string(a)) }

type AssistanceChannel string

const (
	ChannelNone       AssistanceChannel = "none"
	ChannelCommunity  AssistanceChannel = "community"
	ChannelOfficial   AssistanceChannel = "official"
	ChannelCommercial AssistanceChannel = "commercial"
	ChannelPrivate    AssistanceChannel = "private"
)

var AssistanceChannels = []string{"none", "community", "official", "commercial", "private"}

func (a AssistanceChannel) String() string { return string(a) }
func (a AssistanceChannel) IsValid() bool  { return slices.Contains(AssistanceChannels, string(a)) }

// Stored lifecycle status of a rescue. Assignment does not change it.
type RescueStatus string

const (
	StatusPending  RescueStatus = "pending"
	StatusResolved RescueStatus = "resolved"
)

var RescueStatuses = []string{"pending", "resolved"}

func (s RescueStatus) String() string { return string(s) }
func (s RescueStatus) IsValid() bool  { return slices.Contains(RescueStatuses, string(s)) }

// Derived state exposed to clients
type RescueState string

const (
	StateOpen     RescueState = "open"
	StateAssigned RescueState = "assigned"
	StateResolved RescueState = "resolved"
)

type CandidateStatus string

const (
	CandidatePending  CandidateStatus = "pending"
	CandidateAccepted CandidateStatus = "accepted"
	CandidateRejected CandidateStatus = "rejected"
)

func (s CandidateStatus) String() string { return string(s) }

// Kind of a stream frame
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventStatus    EventKind = "status"
	EventAssigned  EventKind = "assigned"
	EventLocation  EventKind = "location"
	EventCandidate EventKind = "candidate"
	EventMessage   EventKind = "message"
)

func (k EventKind) String() string { return string(k) }

type NotificationType string

const (
	NotificationCandidate         NotificationType = "rescue_candidate"
	NotificationAssigned          NotificationType = "rescue_assigned"
	NotificationCandidateRejected NotificationType = "rescue_candidate_rejected"
	NotificationMessage           NotificationType = "rescue_message"
	NotificationResolved          NotificationType = "rescue_resolved"
)

func (n NotificationType) String() string { return string(n) }
