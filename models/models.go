package models

func (session *Session) CanAuthorExercises() bool {
	return session.Role == RoleProfessor || session.Role == RoleAdmin
}

func (session *Session) CanManageClasses() bool {
	return session.Role == RoleProfessor || session.Role == RoleAdmin
}

func (session *Session) CanViewStudent(studentID string) bool {
	// Students only see their own data, staff see everyone
	if session.Role == RoleProfessor || session.Role == RoleAdmin {
		return true
	}
	return session.UserID == studentID
}

func (session *Session) CanActForStudent(studentID string) bool {
	return session.UserID == studentID
}

func (session *Session) CanViewPlatformAnalytics() bool {
	return session.Role == RoleAdmin
}
