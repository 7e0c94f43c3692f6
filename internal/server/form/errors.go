package form

import "errors"

var (
	ErrNoUser        = errors.New("form: no signed-in user")
	ErrNoFile        = errors.New("form: no file")
	ErrBusy          = errors.New("form: another transfer is in progress")
	ErrImageAttached = errors.New("form: an image is already attached")
	ErrUpload        = errors.New("form: upload failed")
	ErrDelete        = errors.New("form: delete failed")
	ErrValidation    = errors.New("form: required fields are empty")
	ErrSave          = errors.New("form: save failed")
	ErrClosed        = errors.New("form: closed")
)

// Alert texts shown to the user.
const (
	MsgUploadOK     = "Image uploaded successfully"
	MsgUploadFailed = "Error while uploading : Try AGain"
	MsgDeleteOK     = "Image deleted successfully"
	MsgDeleteFailed = "Error while deleting : Try Again"
	MsgRequired     = "Required fields can't be empty"
	MsgSaveOK       = "Data Uploaded successfully"
	MsgSaveFailed   = MsgUploadFailed
)

const defaultImagePrefix = "Images"
