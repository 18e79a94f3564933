package datasource

import "github.com/matsen/modelgraph/internal/entity"

// Display attributes by hierarchy level.
const (
	rootColor   = "#1B5E20"
	moduleColor = "#43A047"
	fieldColor  = "#A5D6A7"

	rootSize   = 50
	moduleSize = 25
	fieldSize  = 12
)

// RootEntity is the top-level entity of the built-in table.
const RootEntity = "System Management"

// Static serves the built-in System Management data model.
type Static struct{}

// NewStatic returns the built-in source.
func NewStatic() *Static {
	return &Static{}
}

// Entities returns a fresh copy of the built-in entity table.
func (s *Static) Entities() ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, 1+len(modules)*8)
	out = append(out, entity.Entity{
		Name:  RootEntity,
		Color: rootColor,
		Size:  rootSize,
		Shape: "dot",
		Title: "System Management Module",
	})
	for _, m := range modules {
		out = append(out, entity.Entity{
			Name:  m.name,
			Color: moduleColor,
			Size:  moduleSize,
			Shape: "dot",
			Title: m.name + " Sub-Module",
		})
	}
	for _, m := range modules {
		for _, f := range m.fields {
			out = append(out, entity.Entity{
				Name:  f.name,
				Color: fieldColor,
				Size:  fieldSize,
				Shape: "dot",
				Title: f.title,
			})
		}
	}
	return out, nil
}

// Relationships returns a fresh copy of the built-in edge list:
// root to each sub-module, then each sub-module to its fields.
func (s *Static) Relationships() ([]entity.Relationship, error) {
	var out []entity.Relationship
	for _, m := range modules {
		out = append(out, entity.Relationship{Source: RootEntity, Target: m.name})
	}
	for _, m := range modules {
		for _, f := range m.fields {
			out = append(out, entity.Relationship{Source: m.name, Target: f.name})
		}
	}
	return out, nil
}

type field struct {
	name  string
	title string
}

type module struct {
	name   string
	fields []field
}

var modules = []module{
	{
		name: "System Identity & Classification",
		fields: []field{
			{"System ID", "Unique identifier assigned to the system"},
			{"System Name", "Official name of the system"},
			{"System Acronym", "Short name used in reporting"},
			{"System Description", "Business purpose and scope of the system"},
			{"System Type", "Application, platform, infrastructure or service"},
			{"Business Owner", "Accountable business owner"},
			{"Technical Owner", "Accountable technical owner"},
			{"Lifecycle Status", "Planned, in production, sunsetting or retired"},
		},
	},
	{
		name: "Criticality & Risk",
		fields: []field{
			{"Criticality Tier", "Tier 0 to tier 3 business criticality"},
			{"Business Impact", "Impact of an outage on business operations"},
			{"Data Classification", "Highest classification of data processed"},
			{"Risk Rating", "Current residual risk rating"},
			{"Regulatory Scope", "Regulations the system falls under"},
		},
	},
	{
		name: "System Resilience",
		fields: []field{
			{"Recovery Time Objective", "Maximum tolerable downtime (RTO)"},
			{"Recovery Point Objective", "Maximum tolerable data loss (RPO)"},
			{"DR Strategy", "Disaster recovery strategy (active-active, warm standby, backup/restore)"},
			{"Backup Frequency", "How often backups are taken"},
			{"Last DR Test Date", "Date of the most recent disaster recovery test"},
		},
	},
	{
		name: "Hosting and System Dependencies",
		fields: []field{
			{"Hosting Environment", "On-premises, private cloud or public cloud"},
			{"Hosting Region", "Data center or cloud region"},
			{"Upstream Systems", "Systems this system consumes data from"},
			{"Downstream Systems", "Systems that consume data from this system"},
			{"Third-Party Vendors", "External vendors the system depends on"},
		},
	},
}
