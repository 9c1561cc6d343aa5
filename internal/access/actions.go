package access

import (
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

// Action names one guarded operation.
type Action string

const (
	ActionRegister Action = "account.register"
	ActionLogin    Action = "account.login"

	ActionHiveCreate Action = "hive.create"
	ActionHiveList   Action = "hive.list"
	ActionHiveRead   Action = "hive.read"
	ActionHiveUpdate Action = "hive.update"
	ActionHiveDelete Action = "hive.delete"

	ActionSensorRegister Action = "sensor.register"
	ActionSensorList     Action = "sensor.list"
	ActionSensorRead     Action = "sensor.read"
	ActionSensorUpdate   Action = "sensor.update"
	ActionSensorDelete   Action = "sensor.delete"

	ActionReadingSimulate Action = "reading.simulate"
	ActionReadingView     Action = "reading.view"
	ActionAlertView       Action = "alert.view"

	ActionOfficerList Action = "officer.list"

	ActionReportCreate            Action = "report.create"
	ActionReportListSent          Action = "report.list_sent"
	ActionReportUpdate            Action = "report.update"
	ActionReportDelete            Action = "report.delete"
	ActionReportListReceived      Action = "report.list_received"
	ActionReportDeleteAsRecipient Action = "report.delete_as_recipient"

	ActionRecommendationCreate       Action = "recommendation.create"
	ActionRecommendationListSent     Action = "recommendation.list_sent"
	ActionRecommendationUpdate       Action = "recommendation.update"
	ActionRecommendationDelete       Action = "recommendation.delete"
	ActionRecommendationListReceived Action = "recommendation.list_received"

	ActionAccountList    Action = "account.list"
	ActionAccountCreate  Action = "account.create"
	ActionAccountApprove Action = "account.approve"
	ActionAccountUpdate  Action = "account.update"
	ActionAccountDelete  Action = "account.delete"
)

// relation is the ownership or assignment link an action requires.
type relation int

const (
	relNone relation = iota
	relHiveOwner
	relSensorOwner
	relReportAuthor
	relReportRecipient
	relRecommendationAuthor
	relAccountSelfGuard
)

type rule struct {
	public   bool
	roles    []models.Role
	relation relation
	// denyCode replaces NOT_FOUND_OR_UNAUTHORIZED for ownership failures.
	denyCode string
}

var (
	beekeeperOnly = []models.Role{models.RoleBeekeeper}
	officerOnly   = []models.Role{models.RoleOfficer}
	adminOnly     = []models.Role{models.RoleAdmin}
)

var rules = map[Action]rule{
	ActionRegister: {public: true},
	ActionLogin:    {public: true},

	ActionHiveCreate: {roles: beekeeperOnly},
	ActionHiveList:   {roles: beekeeperOnly},
	ActionHiveRead:   {roles: beekeeperOnly, relation: relHiveOwner},
	ActionHiveUpdate: {roles: beekeeperOnly, relation: relHiveOwner},
	ActionHiveDelete: {roles: beekeeperOnly, relation: relHiveOwner},

	// the target of sensor.register is the hive it will be attached to
	ActionSensorRegister: {roles: beekeeperOnly, relation: relHiveOwner},
	ActionSensorList:     {roles: beekeeperOnly},
	ActionSensorRead:     {roles: beekeeperOnly, relation: relSensorOwner},
	ActionSensorUpdate:   {roles: beekeeperOnly, relation: relSensorOwner},
	ActionSensorDelete:   {roles: beekeeperOnly, relation: relSensorOwner},

	ActionReadingSimulate: {roles: beekeeperOnly, relation: relHiveOwner, denyCode: errors.CodeNoHivesFound},
	ActionReadingView:     {roles: beekeeperOnly, relation: relHiveOwner},
	ActionAlertView:       {roles: beekeeperOnly},

	ActionOfficerList: {roles: beekeeperOnly},

	ActionReportCreate:            {roles: beekeeperOnly},
	ActionReportListSent:          {roles: beekeeperOnly},
	ActionReportUpdate:            {roles: beekeeperOnly, relation: relReportAuthor},
	ActionReportDelete:            {roles: beekeeperOnly, relation: relReportAuthor},
	ActionReportListReceived:      {roles: officerOnly},
	ActionReportDeleteAsRecipient: {roles: officerOnly, relation: relReportRecipient},

	ActionRecommendationCreate:       {roles: officerOnly},
	ActionRecommendationListSent:     {roles: officerOnly},
	ActionRecommendationUpdate:       {roles: officerOnly, relation: relRecommendationAuthor},
	ActionRecommendationDelete:       {roles: officerOnly, relation: relRecommendationAuthor},
	ActionRecommendationListReceived: {roles: beekeeperOnly},

	ActionAccountList:    {roles: adminOnly},
	ActionAccountCreate:  {roles: adminOnly},
	ActionAccountApprove: {roles: adminOnly},
	ActionAccountUpdate:  {roles: adminOnly, relation: relAccountSelfGuard},
	ActionAccountDelete:  {roles: adminOnly, relation: relAccountSelfGuard},
}

// Known reports whether the action has a rule.
func Known(a Action) bool {
	_, ok := rules[a]
	return ok
}
