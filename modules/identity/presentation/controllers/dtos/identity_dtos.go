package dtos

import (
	"github.com/iota-uz/hcm-console/modules/identity/services"
	"github.com/iota-uz/hcm-console/pkg/backend"
)

// Every DTO has a Values method returning the fields that may be shown
// again in the form. Passwords are never part of it.

type UsernameDTO struct {
	Username string `form:"username"`
}

func (d *UsernameDTO) Values() map[string]string {
	return map[string]string{"username": d.Username}
}

type RoleDTO struct {
	Username string `form:"username"`
	RoleName string `form:"roleName"`
}

func (d *RoleDTO) ToAssignment() backend.RoleAssignment {
	return backend.RoleAssignment{Username: d.Username, RoleName: d.RoleName}
}

func (d *RoleDTO) Values() map[string]string {
	return map[string]string{"username": d.Username, "roleName": d.RoleName}
}

type SecurityDTO struct {
	Username        string `form:"username"`
	RoleName        string `form:"roleName"`
	SecurityContext string `form:"securityContext"`
	SecurityValue   string `form:"securityValue"`
}

func (d *SecurityDTO) ToAssignment() backend.DataSecurityAssignment {
	return backend.DataSecurityAssignment{
		Username:            d.Username,
		RoleName:            d.RoleName,
		DataSecurityContext: d.SecurityContext,
		DataSecurityValue:   d.SecurityValue,
	}
}

func (d *SecurityDTO) Values() map[string]string {
	return map[string]string{
		"username":        d.Username,
		"roleName":        d.RoleName,
		"securityContext": d.SecurityContext,
		"securityValue":   d.SecurityValue,
	}
}

type AORAssignDTO struct {
	Username string `form:"username"`
	AORName  string `form:"aorName"`
	AORType  string `form:"aorType"`
}

func (d *AORAssignDTO) ToAssignment() backend.AORAssignment {
	return backend.AORAssignment{Username: d.Username, AORName: d.AORName, AORType: d.AORType}
}

func (d *AORAssignDTO) Values() map[string]string {
	return map[string]string{"username": d.Username, "aorName": d.AORName, "aorType": d.AORType}
}

type AORRemoveDTO struct {
	Username string `form:"username"`
	AORID    string `form:"aorId"`
}

func (d *AORRemoveDTO) ToRemoval() backend.AORRemoval {
	return backend.AORRemoval{Username: d.Username, AORID: d.AORID}
}

func (d *AORRemoveDTO) Values() map[string]string {
	return map[string]string{"username": d.Username, "aorId": d.AORID}
}

type BulkDTO struct {
	Data string `form:"bulkData"`
}

func (d *BulkDTO) Values() map[string]string {
	return map[string]string{"bulkData": d.Data}
}

type PasswordResetDTO struct {
	Username    string `form:"username"`
	NewPassword string `form:"newPassword"`
}

func (d *PasswordResetDTO) ToReset() backend.PasswordReset {
	return backend.PasswordReset{Username: d.Username, NewPassword: d.NewPassword}
}

func (d *PasswordResetDTO) Values() map[string]string {
	return map[string]string{"username": d.Username}
}

type PasswordUpdateDTO struct {
	Username        string `form:"username"`
	CurrentPassword string `form:"currentPassword"`
	NewPassword     string `form:"newPassword"`
}

func (d *PasswordUpdateDTO) ToUpdate() backend.PasswordUpdate {
	return backend.PasswordUpdate{
		Username:        d.Username,
		CurrentPassword: d.CurrentPassword,
		NewPassword:     d.NewPassword,
	}
}

func (d *PasswordUpdateDTO) Values() map[string]string {
	return map[string]string{"username": d.Username}
}

type UserSearchDTO struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Active   string `form:"active"`
}

func (d *UserSearchDTO) ToCriteria() backend.UserCriteria {
	return backend.UserCriteria{Username: d.Username, Email: d.Email, Active: d.Active}
}

func (d *UserSearchDTO) Values() map[string]string {
	return map[string]string{"username": d.Username, "email": d.Email, "active": d.Active}
}

type AORSearchDTO struct {
	Name string `form:"name"`
	Type string `form:"type"`
}

func (d *AORSearchDTO) ToCriteria() backend.AORCriteria {
	return backend.AORCriteria{Name: d.Name, Type: d.Type}
}

func (d *AORSearchDTO) Values() map[string]string {
	return map[string]string{"name": d.Name, "type": d.Type}
}

// UploadDTO holds the plain fields of the multipart upload form.
type UploadDTO struct {
	OperationType string `form:"operationType"`
}

func (d *UploadDTO) ToInput(fileName string) services.UploadInput {
	return services.UploadInput{FileName: fileName, Operation: d.OperationType}
}

func (d *UploadDTO) Values() map[string]string {
	return map[string]string{"operationType": d.OperationType}
}
