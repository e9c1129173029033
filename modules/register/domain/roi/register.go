// Package roi assembles the Register of Information templates from the
// tenant's organization, providers and contractual arrangements.
package roi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/pkg/monetary"
)

type TemplateCode string

const (
	TemplateEntity    TemplateCode = "B_01.01"
	TemplateContracts TemplateCode = "B_02.01"
	TemplateProviders TemplateCode = "B_05.01"
	TemplateFunctions TemplateCode = "B_06.01"
)

const (
	dateLayout = "2006-01-02"
	booleanYes = "true"
	booleanNo  = "false"
)

// Templates lists the reported templates in filing order.
var Templates = []TemplateCode{TemplateEntity, TemplateContracts, TemplateProviders, TemplateFunctions}

// Column is one ESA column: its code in the data point model and a label.
type Column struct {
	Code   string `json:"code"`
	Header string `json:"header"`
}

type Row struct {
	Ref    string   `json:"ref"`
	Values []string `json:"values"`
}

type Sheet struct {
	Template TemplateCode `json:"template"`
	Title    string       `json:"title"`
	Columns  []Column     `json:"columns"`
	Rows     []Row        `json:"rows"`
}

// Register is the full set of templates for one reference date.
type Register struct {
	ReferenceDate time.Time `json:"reference_date"`
	Sheets        []Sheet   `json:"sheets"`
}

func (r Register) Sheet(code TemplateCode) (Sheet, bool) {
	for _, s := range r.Sheets {
		if s.Template == code {
			return s, true
		}
	}
	return Sheet{}, false
}

// RowCount is the number of data rows across every template, B_06.01
// function rows included. Completeness is measured against it.
func (r Register) RowCount() int {
	n := 0
	for _, s := range r.Sheets {
		n += len(s.Rows)
	}
	return n
}

// Input is the data a register is built from.
type Input struct {
	Organization organization.Organization
	Vendors      []vendor.Vendor
	Contracts    []contract.Contract
}

func col(template TemplateCode, n int, header string) Column {
	return Column{Code: fmt.Sprintf("%s.%04d", template, n), Header: header}
}

var (
	entityColumns = []Column{
		col(TemplateEntity, 10, "LEI of the entity maintaining the register"),
		col(TemplateEntity, 20, "Name of the entity"),
		col(TemplateEntity, 30, "Country of the entity"),
		col(TemplateEntity, 40, "Type of entity"),
		col(TemplateEntity, 50, "Competent authority"),
		col(TemplateEntity, 60, "Date of the reporting"),
	}
	contractColumns = []Column{
		col(TemplateContracts, 10, "Contractual arrangement reference number"),
		col(TemplateContracts, 20, "Type of contractual arrangement"),
		col(TemplateContracts, 30, "Identification code of the ICT third-party service provider"),
		col(TemplateContracts, 40, "Currency of the annual expense"),
		col(TemplateContracts, 50, "Annual expense or estimated cost"),
		col(TemplateContracts, 60, "Type of ICT services"),
		col(TemplateContracts, 70, "Start date of the contractual arrangement"),
		col(TemplateContracts, 80, "End date of the contractual arrangement"),
		col(TemplateContracts, 90, "Notice period for the financial entity"),
		col(TemplateContracts, 100, "Notice period for the ICT third-party service provider"),
		col(TemplateContracts, 110, "Country of the governing law"),
		col(TemplateContracts, 120, "Storage of data"),
		col(TemplateContracts, 130, "Location of the data at rest"),
		col(TemplateContracts, 140, "Sensitiveness of the data stored"),
		col(TemplateContracts, 150, "Level of reliance"),
	}
	providerColumns = []Column{
		col(TemplateProviders, 10, "Identification code of the ICT third-party service provider"),
		col(TemplateProviders, 20, "Type of code"),
		col(TemplateProviders, 30, "Name of the ICT third-party service provider"),
		col(TemplateProviders, 40, "Type of person"),
		col(TemplateProviders, 50, "Country of the headquarters"),
		col(TemplateProviders, 60, "Currency of the total annual expense"),
		col(TemplateProviders, 70, "Total annual expense"),
		col(TemplateProviders, 80, "LEI of the direct parent undertaking"),
		col(TemplateProviders, 90, "LEI of the ultimate parent undertaking"),
		col(TemplateProviders, 100, "Substitutability"),
	}
	functionColumns = []Column{
		col(TemplateFunctions, 10, "Function identifier"),
		col(TemplateFunctions, 20, "Function name"),
		col(TemplateFunctions, 30, "Critical or important function"),
		col(TemplateFunctions, 40, "Contractual arrangements supporting the function"),
	}
)

// Build lays out the four templates. Rows keep a stable order so repeated
// exports diff cleanly.
func Build(in Input, referenceDate time.Time) Register {
	vendorsByID := make(map[uuid.UUID]vendor.Vendor, len(in.Vendors))
	for _, v := range in.Vendors {
		vendorsByID[v.ID()] = v
	}
	return Register{
		ReferenceDate: referenceDate,
		Sheets: []Sheet{
			entitySheet(in.Organization, referenceDate),
			contractSheet(in.Contracts, vendorsByID),
			providerSheet(in.Vendors, in.Contracts),
			functionSheet(in.Contracts),
		},
	}
}

func entitySheet(org organization.Organization, referenceDate time.Time) Sheet {
	return Sheet{
		Template: TemplateEntity,
		Title:    "Entity maintaining the register",
		Columns:  entityColumns,
		Rows: []Row{{
			Ref: org.ID().String(),
			Values: []string{
				org.LEI(),
				org.Name(),
				org.Country(),
				string(org.EntityType()),
				org.CompetentAuthority(),
				referenceDate.Format(dateLayout),
			},
		}},
	}
}

func contractSheet(contracts []contract.Contract, vendorsByID map[uuid.UUID]vendor.Vendor) Sheet {
	sorted := append([]contract.Contract(nil), contracts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Reference() < sorted[j].Reference() })
	rows := make([]Row, 0, len(sorted))
	for _, c := range sorted {
		providerCode := ""
		if v, ok := vendorsByID[c.VendorID()]; ok {
			providerCode, _ = v.Identifier()
		}
		currency, amount := amountCells(c.AnnualCost())
		rows = append(rows, Row{
			Ref: c.Reference(),
			Values: []string{
				c.Reference(),
				string(c.ArrangementType()),
				providerCode,
				currency,
				amount,
				c.ServiceType(),
				dateCell(c.StartDate()),
				dateCell(c.EndDate()),
				strconv.Itoa(c.NoticeEntityDays()),
				strconv.Itoa(c.NoticeProviderDays()),
				c.GoverningLaw(),
				boolCell(c.DataStorage()),
				c.DataLocation(),
				c.DataSensitivity(),
				c.RelianceLevel(),
			},
		})
	}
	return Sheet{Template: TemplateContracts, Title: "Contractual arrangements", Columns: contractColumns, Rows: rows}
}

func providerSheet(vendors []vendor.Vendor, contracts []contract.Contract) Sheet {
	sorted := append([]vendor.Vendor(nil), vendors...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })
	rows := make([]Row, 0, len(sorted))
	for _, v := range sorted {
		code, kind := v.Identifier()
		currency, amount := amountCells(v.AnnualExpense())
		rows = append(rows, Row{
			Ref: v.Name(),
			Values: []string{
				code,
				kind,
				v.Name(),
				string(v.PersonType()),
				v.HQCountry(),
				currency,
				amount,
				v.ParentLEI(),
				v.UltimateParentLEI(),
				string(v.Substitutability()),
			},
		})
	}
	return Sheet{Template: TemplateProviders, Title: "ICT third-party service providers", Columns: providerColumns, Rows: rows}
}

// functionSheet groups the arrangements by the function they support. A
// function is critical when any supporting arrangement says so.
func functionSheet(contracts []contract.Contract) Sheet {
	type function struct {
		name     string
		critical bool
		refs     []string
	}
	byName := map[string]*function{}
	var names []string
	for _, c := range contracts {
		name := c.FunctionName()
		if name == "" {
			continue
		}
		f, ok := byName[name]
		if !ok {
			f = &function{name: name}
			byName[name] = f
			names = append(names, name)
		}
		f.critical = f.critical || c.SupportsCriticalFunction()
		f.refs = append(f.refs, c.Reference())
	}
	sort.Strings(names)
	rows := make([]Row, 0, len(names))
	for i, name := range names {
		f := byName[name]
		sort.Strings(f.refs)
		id := fmt.Sprintf("F%03d", i+1)
		rows = append(rows, Row{
			Ref:    id,
			Values: []string{id, f.name, boolCell(f.critical), strings.Join(f.refs, "; ")},
		})
	}
	return Sheet{Template: TemplateFunctions, Title: "Functions identification", Columns: functionColumns, Rows: rows}
}

func amountCells(a *monetary.Amount) (currency, amount string) {
	if a == nil {
		return "", ""
	}
	return a.Currency, strconv.FormatFloat(a.Money().AsMajorUnits(), 'f', -1, 64)
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func boolCell(b bool) string {
	if b {
		return booleanYes
	}
	return booleanNo
}
