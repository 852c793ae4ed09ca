package model

// FormFactor is the physical package of a transceiver module.
type FormFactor string

const (
	FormFactorSFP     FormFactor = "SFP"
	FormFactorSFPPlus FormFactor = "SFP+"
	FormFactorSFP28   FormFactor = "SFP28"
	FormFactorQSFP    FormFactor = "QSFP+"
	FormFactorQSFP28  FormFactor = "QSFP28"
	FormFactorQSFPDD  FormFactor = "QSFP-DD"
)

// DataRate is the nominal line rate of a transceiver.
type DataRate string

const (
	DataRate1G   DataRate = "1G"
	DataRate10G  DataRate = "10G"
	DataRate25G  DataRate = "25G"
	DataRate40G  DataRate = "40G"
	DataRate100G DataRate = "100G"
	DataRate400G DataRate = "400G"
)

// Connector is the optical connector type on the module face.
type Connector string

const (
	ConnectorLC     Connector = "LC"
	ConnectorSC     Connector = "SC"
	ConnectorMPOMTP Connector = "MPO/MTP"
	ConnectorMPO16  Connector = "MPO-16"
)

// Status is the lifecycle state of a catalog product.
type Status string

const (
	StatusActive       Status = "Active"
	StatusEOL          Status = "EOL"
	StatusDiscontinued Status = "Discontinued"
)

// AllFormFactors returns the accepted form factors in display order.
func AllFormFactors() []string {
	return []string{
		string(FormFactorSFP), string(FormFactorSFPPlus), string(FormFactorSFP28),
		string(FormFactorQSFP), string(FormFactorQSFP28), string(FormFactorQSFPDD),
	}
}

// AllDataRates returns the accepted data rates in ascending speed order.
func AllDataRates() []string {
	return []string{
		string(DataRate1G), string(DataRate10G), string(DataRate25G),
		string(DataRate40G), string(DataRate100G), string(DataRate400G),
	}
}

// AllConnectors returns the accepted connector types.
func AllConnectors() []string {
	return []string{
		string(ConnectorLC), string(ConnectorSC), string(ConnectorMPOMTP), string(ConnectorMPO16),
	}
}

// AllStatuses returns the accepted lifecycle states.
func AllStatuses() []string {
	return []string{string(StatusActive), string(StatusEOL), string(StatusDiscontinued)}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
