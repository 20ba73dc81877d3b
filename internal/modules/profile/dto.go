package profile

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" validate:"omitnil,notblank,max=128"`
	LastName    *string `json:"last_name" validate:"omitnil,notblank,max=128"`
	Phone       *string `json:"phone" validate:"omitempty,max=64"`
	Nationality *string `json:"nationality" validate:"omitempty,max=64"`
	BirthDate   *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=tenant admin"`
}

type PictureResponse struct {
	ProfilePictureURL string `json:"profile_picture_url"`
}
