// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"strconv"

	"github.com/go-arcade/registry/internal/registry/auth"
	"github.com/go-arcade/registry/internal/registry/service"
	httpx "github.com/go-arcade/registry/pkg/http"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderSignature       = "X-Signature"
	HeaderMaintainerEmail = "X-Maintainer-Email"
)

type createPluginBody struct {
	Name string `json:"name"`
}

type addMaintainerBody struct {
	Email  *string `json:"email"`
	SSHKey string  `json:"ssh_key"`
}

type publishVersionBody struct {
	Tarball *string `json:"tarball"`
}

func (rt *Router) pluginRouter(r fiber.Router) {
	pluginGroup := r.Group("/plugins")
	{
		pluginGroup.Get("", rt.listPlugins)
		pluginGroup.Post("", rt.createPlugin)
		pluginGroup.Get("/:name", rt.getPlugin)
		pluginGroup.Delete("/:name", rt.deletePlugin)

		// 维护者
		pluginGroup.Get("/:name/maintainers", rt.listMaintainers)
		pluginGroup.Post("/:name/maintainers", rt.addMaintainer)

		// 版本, latest 必须在 /:version 之前注册
		pluginGroup.Get("/:name/versions", rt.listVersions)
		pluginGroup.Get("/:name/versions/latest", rt.latestVersion)
		pluginGroup.Get("/:name/versions/:version", rt.getVersion)
		pluginGroup.Post("/:name/versions/:version", rt.publishVersion)
		pluginGroup.Delete("/:name/versions/:version", rt.deleteVersion)
	}
}

// caller collects the gate headers and the path they must be signed over.
func caller(c *fiber.Ctx) service.Caller {
	return service.Caller{
		Credentials: auth.Credentials{
			PublicKey: c.Get(fiber.HeaderAuthorization),
			Signature: c.Get(HeaderSignature),
		},
		Path: c.Path(),
	}
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(httpx.UnprocessableEntity.Code, "Query parameter "+key+" must be an integer.")
	}
	return v, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(httpx.UnprocessableEntity.Code, "Invalid request body: "+err.Error())
	}
	return nil
}

func (rt *Router) listPlugins(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "page_size")
	if err != nil {
		return err
	}

	plugins, err := rt.Service.ListPlugins(c.UserContext(), page, pageSize)
	if err != nil {
		return err
	}
	c.Locals(httpx.DETAIL, plugins)
	return nil
}

func (rt *Router) getPlugin(c *fiber.Ctx) error {
	plugin, err := rt.Service.GetPlugin(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	c.Locals(httpx.DETAIL, plugin)
	return nil
}

func (rt *Router) createPlugin(c *fiber.Ctx) error {
	var body createPluginBody
	if err := parseBody(c, &body); err != nil {
		return err
	}

	err := rt.Service.CreatePlugin(c.UserContext(), service.CreatePluginRequest{
		Name:        body.Name,
		Credentials: auth.Credentials{PublicKey: c.Get(fiber.HeaderAuthorization)},
		Email:       c.Get(HeaderMaintainerEmail),
	})
	if err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	c.Locals(httpx.OPERATION, true)
	return nil
}

func (rt *Router) deletePlugin(c *fiber.Ctx) error {
	if err := rt.Service.DeletePlugin(c.UserContext(), c.Params("name"), caller(c)); err != nil {
		return err
	}
	c.Status(fiber.StatusNoContent)
	return nil
}

func (rt *Router) listMaintainers(c *fiber.Ctx) error {
	maintainers, err := rt.Service.ListMaintainers(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	c.Locals(httpx.DETAIL, maintainers)
	return nil
}

func (rt *Router) addMaintainer(c *fiber.Ctx) error {
	var body addMaintainerBody
	if err := parseBody(c, &body); err != nil {
		return err
	}

	created, err := rt.Service.AddMaintainer(c.UserContext(), c.Params("name"), service.AddMaintainerRequest{
		Email:  body.Email,
		SSHKey: body.SSHKey,
	}, caller(c))
	if err != nil {
		return err
	}
	if created {
		c.Status(fiber.StatusCreated)
	}
	c.Locals(httpx.OPERATION, true)
	return nil
}

func (rt *Router) listVersions(c *fiber.Ctx) error {
	versions, err := rt.Service.ListVersions(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	c.Locals(httpx.DETAIL, versions)
	return nil
}

func (rt *Router) latestVersion(c *fiber.Ctx) error {
	latest, err := rt.Service.LatestVersion(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	c.Locals(httpx.DETAIL, latest)
	return nil
}

func (rt *Router) getVersion(c *fiber.Ctx) error {
	v, err := rt.Service.GetVersion(c.UserContext(), c.Params("name"), c.Params("version"))
	if err != nil {
		return err
	}
	c.Locals(httpx.DETAIL, v)
	return nil
}

func (rt *Router) publishVersion(c *fiber.Ctx) error {
	var body publishVersionBody
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if body.Tarball == nil {
		return fiber.NewError(httpx.UnprocessableEntity.Code, "Field tarball is required.")
	}

	err := rt.Service.PublishVersion(c.UserContext(), c.Params("name"), c.Params("version"), *body.Tarball, caller(c))
	if err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	c.Locals(httpx.OPERATION, true)
	return nil
}

func (rt *Router) deleteVersion(c *fiber.Ctx) error {
	if err := rt.Service.DeleteVersion(c.UserContext(), c.Params("name"), c.Params("version"), caller(c)); err != nil {
		return err
	}
	c.Status(fiber.StatusNoContent)
	return nil
}
