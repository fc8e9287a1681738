/* Copyright 2025 Leaflog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package testutils provides utilities used in tests
package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/helpers"
	"github.com/leaflog/leaflog/pkg/server/token"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TokenSecret is the token signing secret used in tests
const TokenSecret = "leaflog-test-secret"

// InitDB opens a database at the given path and initializes the schema
func InitDB(dbPath string) *gorm.DB {
	db := database.Open(dbPath)
	database.InitSchema(db)
	return db
}

// InitMemoryDB creates an in-memory SQLite database with the schema initialized
func InitMemoryDB(t *testing.T) *gorm.DB {
	// Use file-based in-memory database with unique UUID per test to avoid sharing
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatalf("failed to generate UUID for test database: %v", err)
	}
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid)
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	database.InitSchema(db)

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

// SetupUserData creates and returns a new user for testing purposes
func SetupUserData(db *gorm.DB, username, email, password string) database.User {
	return setupUser(db, username, email, password, database.RoleUser)
}

// SetupAdminData creates and returns a new admin user for testing purposes
func SetupAdminData(db *gorm.DB, username, email, password string) database.User {
	return setupUser(db, username, email, password, database.RoleAdmin)
}

func setupUser(db *gorm.DB, username, email, password, role string) database.User {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(errors.Wrap(err, "Failed to hash password"))
	}

	user := database.User{
		Username: username,
		Email:    email,
		Password: database.ToNullString(string(hashedPassword)),
		Role:     role,
	}

	if err := db.Save(&user).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare user"))
	}

	return user
}

// SetupSession creates and returns an open login record for the user
func SetupSession(db *gorm.DB, user database.User) database.Session {
	session := database.Session{
		UserID:    user.ID,
		LoginAt:   time.Now(),
		UserAgent: "testutils",
		IP:        "127.0.0.1",
	}
	if err := db.Save(&session).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare session"))
	}

	return session
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		// Do not follow redirects so that redirects themselves can be tested
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// SetReqAuthHeader sets the authorization header in the given request for the given user
func SetReqAuthHeader(t *testing.T, req *http.Request, user database.User) {
	issuer := token.NewIssuer(TokenSecret)

	tok, err := issuer.Create(user.ID, time.Now())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating token"))
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tok))
}

// HTTPAuthDo makes an HTTP request with an appropriate authorization header for a user
func HTTPAuthDo(t *testing.T, req *http.Request, user database.User) *http.Response {
	SetReqAuthHeader(t, req, user)

	return HTTPDo(t, req)
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))

	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}

	return req
}

// MakeJSONReq makes an HTTP request with a JSON content type
func MakeJSONReq(endpoint, method, path, data string) *http.Request {
	req := MakeReq(endpoint, method, path, data)
	req.Header.Set("Content-Type", "application/json")

	return req
}

// MakeFormReq makes an HTTP request with a form content type
func MakeFormReq(endpoint, method, path string, data url.Values) *http.Request {
	req := MakeReq(endpoint, method, path, data.Encode())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// MustRespondJSON responds with the JSON-encoding of the given interface. If the encoding
// fails, the test fails. It is used by test servers.
func MustRespondJSON(t *testing.T, w http.ResponseWriter, i interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(i); err != nil {
		t.Fatal(message)
	}
}

// BodyEncoding is the request body encoding to be tested
type BodyEncoding int

const (
	// EncodingForm represents a form-encoded request body
	EncodingForm BodyEncoding = iota
	// EncodingJSON represents a JSON request body
	EncodingJSON
)

type encodingTest func(t *testing.T, encoding BodyEncoding)

// RunForFormAndJSON runs the given test function for form and JSON request bodies
func RunForFormAndJSON(t *testing.T, name string, runTest encodingTest) {
	t.Run(fmt.Sprintf("%s-form", name), func(t *testing.T) {
		runTest(t, EncodingForm)
	})

	t.Run(fmt.Sprintf("%s-json", name), func(t *testing.T) {
		runTest(t, EncodingJSON)
	})
}

// PayloadWrapper is a wrapper for a payload that can be converted to
// either URL form values or JSON
type PayloadWrapper struct {
	Data interface{}
}

func (p PayloadWrapper) ToURLValues() url.Values {
	values := url.Values{}

	el := reflect.ValueOf(p.Data)
	if el.Kind() == reflect.Ptr {
		el = el.Elem()
	}
	iVal := el
	typ := iVal.Type()
	for i := 0; i < iVal.NumField(); i++ {
		fi := typ.Field(i)
		name := fi.Tag.Get("schema")
		if name == "" {
			name = fi.Name
		}

		if !iVal.Field(i).IsNil() {
			values.Set(name, fmt.Sprint(iVal.Field(i).Elem()))
		}
	}

	return values
}

func (p PayloadWrapper) ToJSON(t *testing.T) string {
	b, err := json.Marshal(p.Data)
	if err != nil {
		t.Fatal(err)
	}

	return string(b)
}

// TrueVal is a true value
var TrueVal = true

// FalseVal is a false value
var FalseVal = false
