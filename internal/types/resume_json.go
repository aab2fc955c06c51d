package types

import "encoding/json"

// resumeJSON Resume 的序列化形式
type resumeJSON struct {
	Identity             Identity       `json:"identity"`
	Summary              string         `json:"summary,omitempty"`
	Contacts             []ContactEntry `json:"contact_info"`
	Educations           []Education    `json:"educations"`
	Projects             []Project      `json:"projects"`
	Skills               []SkillGroup   `json:"skills"`
	Achievements         []Achievement  `json:"achievements"`
	Profiles             []ProfileLink  `json:"profiles"`
	LowConfidence        bool           `json:"low_confidence"`
	LowConfidenceReasons []string       `json:"low_confidence_reasons,omitempty"`
}

// MarshalJSON 空列表输出为 [] 而不是 null
func (r *Resume) MarshalJSON() ([]byte, error) {
	return json.Marshal(resumeJSON{
		Identity:             r.identity,
		Summary:              r.summary,
		Contacts:             nonNil(r.contacts),
		Educations:           nonNil(r.educations),
		Projects:             nonNil(r.projects),
		Skills:               nonNil(r.skills),
		Achievements:         nonNil(r.achievements),
		Profiles:             nonNil(r.profiles),
		LowConfidence:        r.lowConfidence,
		LowConfidenceReasons: r.lowConfidenceReasons,
	})
}

// UnmarshalJSON 供缓存层还原结果使用
func (r *Resume) UnmarshalJSON(data []byte) error {
	var v resumeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = *NewResume(ResumeData{
		Identity:             v.Identity,
		Summary:              v.Summary,
		Contacts:             v.Contacts,
		Educations:           v.Educations,
		Projects:             v.Projects,
		Skills:               v.Skills,
		Achievements:         v.Achievements,
		Profiles:             v.Profiles,
		LowConfidence:        v.LowConfidence,
		LowConfidenceReasons: v.LowConfidenceReasons,
	})
	return nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
