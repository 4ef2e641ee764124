package utils

import (
	"strconv"
	"strings"
	"time"
)

func BuildAppointmentsListCacheKey(limit, offset int, patientID, doctorID, status *string, from, to *time.Time) string {
	p := ""
	if patientID != nil {
		p = strings.TrimSpace(*patientID)
	}
	d := ""
	if doctorID != nil {
		d = strings.TrimSpace(*doctorID)
	}
	s := ""
	if status != nil {
		s = strings.ToLower(strings.TrimSpace(*status))
	}
	f := ""
	if from != nil {
		f = from.UTC().Format(time.RFC3339Nano)
	}
	t := ""
	if to != nil {
		t = to.UTC().Format(time.RFC3339Nano)
	}

	return "appointments:list:v1:limit=" + strconv.Itoa(limit) +
		":offset=" + strconv.Itoa(offset) +
		":patient=" + p +
		":doctor=" + d +
		":status=" + s +
		":from=" + f +
		":to=" + t
}
