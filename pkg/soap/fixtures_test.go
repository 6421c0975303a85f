package soap

var (
	submitA = &Operation{
		Name: "Disco.Submit",

		Input:  []string{"sessionID", "errorMessage", "assetData"},
		Output: []string{"resendList"},

		Accepts: "Disco.SubmitRequest",
		Returns: "Disco.SubmitResponse",
	}

	submitB = &Operation{
		Name: "Disco.Submit",

		Input:  []string{"sessionID", "jobID", "jobComplete", "errorMessage", "assetData"},
		Output: []string{"invalidJob", "resendList"},

		Accepts: "Disco.SubmitRequest2",
		Returns: "Disco.SubmitResponse2",
	}

	submitC = &Operation{
		Name: "Disco.Submit",

		Input:  []string{"SessionID", "ApplianceID", "JobID", "JobComplete", "ErrorMessage", "Asset"},
		Output: []string{"MalformedJob", "InvalidJob", "Msg"},

		Accepts: "Disco.SubmitRequestOld",
		Returns: "Disco.SubmitResponseOld",
	}

	list = &Operation{
		Name: "Disco.List",

		Input:  []string{"SessionID", "ApplianceID"},
		Output: []string{"Jobs"},

		Accepts: "Disco.ListRequest",
		Returns: "Disco.ListResponse",
	}
)

func discoSubmit() *OverloadSet {
	return NewOverloadSet("Disco.Submit", submitA, submitB, submitC)
}

func discoList() *OverloadSet {
	return NewOverloadSet("Disco.List", list)
}
