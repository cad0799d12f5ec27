package entity

import (
	"sort"

	"github.com/atlanticofertlog/cargo-docs/constants"
)

// NotFound marks a license or registration field the extractor could not read.
const NotFound = "Não encontrado"

// OrderLineItem is one product line of a loading order.
type OrderLineItem struct {
	Customer        string                `json:"customer"`
	OrderNumber     string                `json:"order_number"`
	ProductName     string                `json:"product_name"`
	WeightTons      float64               `json:"weight_tons"`
	PackageType     constants.PackageType `json:"package_type"`
	PackageLabel    string                `json:"package_label"`
	City            string                `json:"city"`
	LoadingLocation string                `json:"loading_location,omitempty"`
	Supplier        string                `json:"supplier,omitempty"`
}

// LicenseRecord holds the fields read from a driver's license (CNH).
type LicenseRecord struct {
	Name            string `json:"name"`
	CPF             string `json:"cpf"`
	LicenseNumber   string `json:"license_number"`
	InsuranceNumber string `json:"insurance_number"`
	Category        string `json:"category"`
	Protocol        string `json:"protocol"`
	BirthDate       string `json:"birth_date"`
	FirstIssueDate  string `json:"first_issue_date"`
	IssueDate       string `json:"issue_date"`
	ExpiryDate      string `json:"expiry_date"`
}

// NewLicenseRecord returns a record with every field set to NotFound.
func NewLicenseRecord() LicenseRecord {
	return LicenseRecord{
		Name:            NotFound,
		CPF:             NotFound,
		LicenseNumber:   NotFound,
		InsuranceNumber: NotFound,
		Category:        NotFound,
		Protocol:        NotFound,
		BirthDate:       NotFound,
		FirstIssueDate:  NotFound,
		IssueDate:       NotFound,
		ExpiryDate:      NotFound,
	}
}

// Missing lists the JSON names of fields still at NotFound.
func (r LicenseRecord) Missing() []string {
	return missing(map[string]string{
		"name":             r.Name,
		"cpf":              r.CPF,
		"license_number":   r.LicenseNumber,
		"insurance_number": r.InsuranceNumber,
		"category":         r.Category,
		"protocol":         r.Protocol,
		"birth_date":       r.BirthDate,
		"first_issue_date": r.FirstIssueDate,
		"issue_date":       r.IssueDate,
		"expiry_date":      r.ExpiryDate,
	})
}

// RegistrationRecord holds the fields read from a vehicle registration (CRLV).
type RegistrationRecord struct {
	Plate           string `json:"plate"`
	Renavam         string `json:"renavam"`
	AxleCount       string `json:"axle_count"`
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	City            string `json:"city"`
	State           string `json:"state"`
	VehicleCategory string `json:"vehicle_category"`
	BodyType        string `json:"body_type"`
}

// NewRegistrationRecord returns a record with every field set to NotFound.
func NewRegistrationRecord() RegistrationRecord {
	return RegistrationRecord{
		Plate:           NotFound,
		Renavam:         NotFound,
		AxleCount:       NotFound,
		Brand:           NotFound,
		Model:           NotFound,
		City:            NotFound,
		State:           NotFound,
		VehicleCategory: NotFound,
		BodyType:        NotFound,
	}
}

func (r RegistrationRecord) Missing() []string {
	return missing(map[string]string{
		"plate":            r.Plate,
		"renavam":          r.Renavam,
		"axle_count":       r.AxleCount,
		"brand":            r.Brand,
		"model":            r.Model,
		"city":             r.City,
		"state":            r.State,
		"vehicle_category": r.VehicleCategory,
		"body_type":        r.BodyType,
	})
}

// CarrierRecord holds the carrier registry number (RNTRC).
type CarrierRecord struct {
	RNTRC string `json:"rntrc"`
}

func missing(fields map[string]string) []string {
	var out []string
	for name, v := range fields {
		if v == NotFound || v == "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
